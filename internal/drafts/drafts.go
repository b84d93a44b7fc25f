// Package drafts renders templated outreach email variants for a company.
package drafts

import (
	"fmt"
	"strings"

	"github.com/venturescout/outreach-cli/internal/config"
	"github.com/venturescout/outreach-cli/internal/model"
)

// Draft is one rendered outreach email.
type Draft struct {
	Variant string `json:"variant"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator renders drafts on behalf of the configured sender.
type Generator struct {
	sender config.SenderConfig
}

// New creates a generator, defaulting any unset sender fields.
func New(sender config.SenderConfig) *Generator {
	if sender.Name == "" {
		sender.Name = "there"
	}
	if sender.School == "" {
		sender.School = "NYU"
	}
	if sender.Degree == "" {
		sender.Degree = "MS in Computer Science"
	}
	if sender.Graduation == "" {
		sender.Graduation = "May 2026"
	}
	if sender.Location == "" {
		sender.Location = "New York City"
	}
	if sender.Visa == "" {
		sender.Visa = "F-1 OPT"
	}
	return &Generator{sender: sender}
}

type skillRule struct {
	terms []string
	line  string
}

// ordered by specificity; the first hit wins
var skillRules = []skillRule{
	{
		terms: []string{"ai", "ml", "machine learning", "deep learning", "neural", "llm", "model", "generative"},
		line:  "my AI/ML research and engineering experience, including work with deep learning models and NLP systems",
	},
	{
		terms: []string{"nlp", "natural language", "language model", "gpt", "chat"},
		line:  "my hands-on experience building NLP pipelines and working with large language models",
	},
	{
		terms: []string{"computer vision", "image", "video", "visual", "detection", "recognition"},
		line:  "my computer vision project experience, including object detection and image classification systems",
	},
	{
		terms: []string{"api", "platform", "developer", "sdk", "infrastructure", "backend"},
		line:  "my full-stack engineering skills and experience building scalable APIs and backend systems",
	},
	{
		terms: []string{"data", "analytics", "pipeline", "etl", "warehouse"},
		line:  "my experience building data pipelines and working with large-scale data processing systems",
	},
	{
		terms: []string{"health", "medical", "clinical", "biotech"},
		line:  "my interest in applying AI to high-impact domains like healthcare, combined with my ML engineering skills",
	},
	{
		terms: []string{"fintech", "financial", "payment", "trading"},
		line:  "my quantitative background and experience building reliable, high-performance systems",
	},
}

const fallbackSkillLine = "my software engineering background and passion for building products that solve real problems"

// skillMatch picks the sender-strength line that best fits the company's
// own description of itself.
func skillMatch(companyText string) string {
	lower := strings.ToLower(companyText)
	for _, rule := range skillRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.line
			}
		}
	}
	return fallbackSkillLine
}

// Generate renders the three outreach variants for a company.
func (g *Generator) Generate(c model.Company) []Draft {
	s := g.sender
	match := skillMatch(c.OneLiner + " " + c.LongDescription)

	whatTheyDo := strings.TrimRight(c.OneLiner, ".")
	if whatTheyDo == "" {
		whatTheyDo = "what you're building"
	}

	direct := Draft{
		Variant: "Direct & Enthusiastic",
		Subject: fmt.Sprintf("%s Grad Student × %s", s.School, c.Name),
		Body: fmt.Sprintf(`Hi there,

I'm %s, pursuing my %s at %s (graduating %s), and I've been following %s's work on %s. As a %s company, you're at an exciting stage, and I'd love to be part of the journey.

What caught my attention is %s, which I believe maps directly to the challenges you're tackling. I'm based in %s and available for full-time roles (%s authorized).

Would you be open to a quick chat about how I could contribute to %s? I'm happy to share my portfolio or do a technical deep-dive on any relevant project.

Best,
%s`,
			s.Name, s.Degree, s.School, s.Graduation, c.Name, whatTheyDo, c.Batch,
			match, s.Location, s.Visa, c.Name, s.Name),
	}

	teamSizeLine := ""
	if c.TeamSize > 0 && c.TeamSize <= 20 {
		teamSizeLine = fmt.Sprintf("With a team of %d, every engineer has outsized impact — that's exactly the environment I thrive in. ", c.TeamSize)
	}
	valueFocused := Draft{
		Variant: "Value-Focused",
		Subject: fmt.Sprintf("Interested in engineering roles at %s", c.Name),
		Body: fmt.Sprintf(`Hi,

I came across %s — %s — and immediately saw a connection with %s.

A bit about me: I'm finishing my %s at %s, focused on AI/ML and systems engineering. I've built projects spanning deep learning, NLP, and full-stack development, and I'm looking for a team where I can apply these skills to real-world products.

%sI'd love to learn more about your engineering challenges and explore if there's a fit.

Are you open to connecting? I'm in %s and flexible on timing.

Best,
%s`,
			c.Name, whatTheyDo, match, s.Degree, s.School, teamSizeLine, s.Location, s.Name),
	}

	oneLiner := c.OneLiner
	if oneLiner != "" && !strings.HasSuffix(oneLiner, ".") {
		oneLiner += "."
	}
	casual := Draft{
		Variant: "Casual & Genuine",
		Subject: fmt.Sprintf("Quick note from a %s student re: %s", s.School, c.Name),
		Body: fmt.Sprintf(`Hey!

Not going to bury the lede — I think what %s is building is genuinely cool. %s

I'm %s, wrapping up my %s at %s with a focus on AI/ML. I've spent the past year going deep on %s, and when I saw %s in the %s batch, I knew I had to reach out.

I'm not looking for just any role — I'm looking for a team that's solving hard problems, and %s fits that description. Would love to chat if you're open to it.

Cheers,
%s`,
			c.Name, oneLiner, s.Name, s.Degree, s.School,
			strings.SplitN(match, ",", 2)[0], c.Name, c.Batch, c.Name, s.Name),
	}

	return []Draft{direct, valueFocused, casual}
}
