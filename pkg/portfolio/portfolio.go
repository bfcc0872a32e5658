package portfolio

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/nikogura/referral-mailer/pkg/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// DefaultLinks is how many links a referral email cites.
const DefaultLinks = 2

// Portfolio matches job skills to portfolio links.
type Portfolio struct {
	store   *Store
	csvPath string
	logger  *zap.Logger
}

// New creates a portfolio over store, seeded from csvPath on Load.
func New(store *Store, csvPath string, logger *zap.Logger) (portfolio *Portfolio) {
	portfolio = &Portfolio{
		store:   store,
		csvPath: csvPath,
		logger:  logging.OrNop(logger),
	}
	return portfolio
}

// Load imports the CSV into the store when the store is empty. It returns
// the number of entries imported, zero when the store was already populated.
func (p *Portfolio) Load(ctx context.Context) (imported int, err error) {
	var count int
	count, err = p.store.Count(ctx)
	if err != nil {
		return imported, err
	}

	if count > 0 {
		p.logger.Debug("Portfolio already loaded", zap.Int("entries", count))
		return imported, err
	}

	if p.csvPath == "" {
		err = errors.New("portfolio store is empty and no portfolio CSV is configured")
		return imported, err
	}

	var entries []Entry
	entries, err = LoadCSV(p.csvPath)
	if err != nil {
		return imported, err
	}

	err = p.store.Insert(ctx, entries)
	if err != nil {
		return imported, err
	}

	imported = len(entries)
	p.logger.Info("Portfolio imported", zap.String("csv", p.csvPath), zap.Int("entries", imported))

	return imported, err
}

// QueryLinks returns up to n distinct links ranked by how many of skills each
// entry's tech stack covers. When fewer than n entries match, the remaining
// slots are filled with other entries in store order.
func (p *Portfolio) QueryLinks(ctx context.Context, skills []string, n int) (links []string, err error) {
	if n <= 0 {
		n = DefaultLinks
	}

	var entries []Entry
	entries, err = p.store.All(ctx)
	if err != nil {
		return links, err
	}

	links = rankLinks(entries, skills, n)

	p.logger.Debug("Portfolio links matched",
		zap.Strings("skills", skills),
		zap.Strings("links", links),
	)

	return links, err
}

type scoredEntry struct {
	entry Entry
	score float64
	order int
}

// rankLinks scores entries against skills and picks the top n distinct links.
func rankLinks(entries []Entry, skills []string, n int) (links []string) {
	folder := cases.Fold()

	wanted := make([]map[string]bool, 0, len(skills))
	for _, skill := range skills {
		tokens := tokenize(folder.String(skill))
		if len(tokens) > 0 {
			wanted = append(wanted, tokens)
		}
	}

	scored := make([]scoredEntry, 0, len(entries))
	for i, entry := range entries {
		have := tokenize(folder.String(entry.TechStack))
		scored = append(scored, scoredEntry{
			entry: entry,
			score: calculateSimilarity(wanted, have),
			order: i,
		})
	}

	sort.SliceStable(scored, func(i, j int) (less bool) {
		less = scored[i].score > scored[j].score
		return less
	})

	seen := make(map[string]bool)
	for _, s := range scored {
		if len(links) == n {
			break
		}
		if seen[s.entry.Link] {
			continue
		}
		seen[s.entry.Link] = true
		links = append(links, s.entry.Link)
	}

	return links
}

// calculateSimilarity counts fully covered skills, plus partial credit for
// multi-word skills that share some tokens with the tech stack.
func calculateSimilarity(wanted []map[string]bool, have map[string]bool) (score float64) {
	for _, skill := range wanted {
		matched := 0
		for token := range skill {
			if have[token] {
				matched++
			}
		}
		score += float64(matched) / float64(len(skill))
	}
	return score
}

// tokenize splits text into a token set. Characters that
// carry meaning in technology names (+, #, .) stay inside tokens.
func tokenize(text string) (tokens map[string]bool) {
	tokens = make(map[string]bool)
	fields := strings.FieldsFunc(text, func(r rune) (split bool) {
		split = !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
		return split
	})
	for _, field := range fields {
		field = strings.Trim(field, ".")
		if field != "" {
			tokens[field] = true
		}
	}
	return tokens
}
