package portfolio

// Entry is one portfolio project: the technologies it demonstrates and where to see it.
type Entry struct {
	ID        string `json:"id"`
	TechStack string `json:"techstack"`
	Link      string `json:"link"`
}
