package llm

import (
	"fmt"
	"strings"

	"github.com/nikogura/referral-mailer/pkg/posting"
)

// jsonFormatInstructions tells the model what shape the extraction must take.
const jsonFormatInstructions = `Return a JSON array. Each element is an object:
[
  {
    "role": "job title",
    "experience": "required experience, e.g. \"3+ years\"",
    "skills": ["skill1", "skill2"],
    "description": "short description of the position"
  }
]`

// buildExtractionPrompt creates the job extraction prompt.
func buildExtractionPrompt(pageText string) (prompt string) {
	prompt = fmt.Sprintf(`### SCRAPED TEXT FROM WEBSITE:
%s

### INSTRUCTION:
The scraped text is from the careers page of a website.
Extract every job posting and return ONLY valid JSON.

STRICT RULES:
- No explanations
- No markdown
- No text before or after JSON
- If no jobs exist, return []

Each job must contain:
- role (string)
- experience (string)
- skills (array of strings)
- description (string)

### JSON FORMAT:
%s`, pageText, jsonFormatInstructions)

	return prompt
}

// renderJob flattens a posting into the label: value block used in prompts.
func renderJob(job posting.JobPosting) (text string) {
	text = fmt.Sprintf("Role: %s\nExperience: %s\nSkills: %s\nDescription: %s",
		job.Role,
		job.Experience,
		strings.Join(job.Skills, ", "),
		job.Description,
	)
	return text
}

// renderLinks lists the portfolio links one per line.
func renderLinks(links []string) (text string) {
	if len(links) == 0 {
		text = "(no portfolio links available)"
		return text
	}

	lines := make([]string, 0, len(links))
	for _, link := range links {
		lines = append(lines, "- "+link)
	}
	text = strings.Join(lines, "\n")
	return text
}

// buildMailPrompt creates the referral email prompt.
func buildMailPrompt(job posting.JobPosting, links []string, sender Sender) (prompt string) {
	role := job.Role
	if role == "" {
		role = "open"
	}

	prompt = fmt.Sprintf(`### JOB DESCRIPTION:
%s

### PORTFOLIO LINKS:
%s

### INSTRUCTION:
You are %s, a %s at %s.
Write a professional cold referral email to the hiring manager for the job above,
offering pre-vetted engineering talent from the %s portfolio.

FORMAT STRICTLY:

Subject: <concise subject related to the role>

Dear Hiring Manager,

<Opening paragraph introducing %s and referencing the %s role>

<Technical capability paragraph aligned with the role>

<Portfolio paragraph with exactly 2 bullet points, each referencing one of the portfolio links>
* <first portfolio link and what it demonstrates>
* <second portfolio link and what it demonstrates>

<Paragraph about scalability, optimization, and efficiency>

<Closing paragraph requesting a discussion>

Best regards,
%s
%s | %s

RULES:
- No markdown
- No thinking
- No explanations
- Output ONLY the email
- Start from Subject:`,
		renderJob(job),
		renderLinks(links),
		sender.Name, sender.Title, sender.Company,
		sender.Company,
		sender.Company, role,
		sender.Name,
		sender.Title, sender.Company,
	)

	return prompt
}
