package usecase

import (
	"context"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

const defaultSystemPrompt = "You return ONLY valid JSON objects."

const defaultUserPrompt = `You are helping {{sender_name}} write a short, genuine outreach email.

**THE SENDER:**
Name: {{sender_name}}
Organization: {{sender_organization}}
Background: {{sender_pitch}}

**THE RECIPIENT:**
Name: {{recipient_first_name}}
Job Title: {{recipient_job_title}}
Company: {{recipient_company}}

**TASK:**
Write a short networking email (max 125 words). Pick ONE thing about their role
that connects to the sender's background. Do NOT include a signature.

Return ONLY valid JSON:
{"subject": "Brief subject line", "body": "The email body starting with 'Hi {{recipient_first_name}},'"}
`

// PromptVariables maps every {{name}} placeholder to its value.
func PromptVariables(c *entity.Contact, p *entity.SenderProfile) map[string]string {
	if p == nil {
		p = &entity.SenderProfile{}
	}
	if c == nil {
		c = &entity.Contact{}
	}
	return map[string]string{
		"sender_name":            p.FullName,
		"sender_email":           p.Email,
		"sender_organization":    p.Organization,
		"sender_department":      p.Department,
		"sender_major":           p.Major,
		"sender_graduation_year": p.GraduationYear,
		"sender_title":           p.Title,
		"sender_pitch":           p.Pitch,
		"sender_goal":            p.TargetGoal,
		"sender_skills":          p.Skills,
		"sender_experience":      p.Experience,

		"recipient_first_name": firstNameOrThere(c),
		"recipient_last_name":  strings.TrimSpace(c.LastName),
		"recipient_email":      strings.TrimSpace(c.Email),
		"recipient_company":    companyOrDefault(c),
		"recipient_job_title":  titleOrDefault(c),
		"recipient_city":       strings.TrimSpace(c.City),
		"recipient_state":      strings.TrimSpace(c.State),
	}
}

// RenderPrompt replaces every {{name}} occurrence with its value. Unknown
// placeholders are left untouched and output is not re-scanned.
func RenderPrompt(pattern string, vars map[string]string) string {
	if pattern == "" || !strings.Contains(pattern, "{{") {
		return pattern
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(pattern)
}

// RenderTemplate returns the system and user prompts for a contact. A nil
// template renders the built-in prompt.
func RenderTemplate(t *entity.Template, c *entity.Contact, p *entity.SenderProfile) (string, string) {
	system, user := defaultSystemPrompt, defaultUserPrompt
	if t != nil {
		system, user = t.SystemPrompt, t.UserPromptTemplate
		if strings.TrimSpace(system) == "" {
			system = defaultSystemPrompt
		}
		if strings.TrimSpace(user) == "" {
			user = defaultUserPrompt
		}
	}
	vars := PromptVariables(c, p)
	return RenderPrompt(system, vars), RenderPrompt(user, vars)
}

func firstNameOrThere(c *entity.Contact) string {
	if v := strings.TrimSpace(c.FirstName); v != "" {
		return v
	}
	return "there"
}

func companyOrDefault(c *entity.Contact) string {
	if v := strings.TrimSpace(c.Company); v != "" {
		return v
	}
	return "your company"
}

func titleOrDefault(c *entity.Contact) string {
	if v := strings.TrimSpace(c.JobTitle); v != "" {
		return v
	}
	return "your role"
}

const antiSpamRules = `
## QUALITY RULES (violating these makes the email feel like spam):
1. NEVER use "I hope this email finds you well" or any variant.
2. NEVER use "reaching out". State your purpose directly.
3. NEVER use "touch base", "synergy", "leverage", or corporate buzzwords.
4. NEVER use more than ONE exclamation point in the entire email.
5. NEVER ask for a meeting or call in the first email. Ask a question instead.
6. Keep the email under 100 words (excluding greeting and sign-off line).
7. Sound like a curious human, not a salesperson.
8. Be specific. Mention ONE thing about their role or company that is genuinely interesting.
9. The subject line should be lowercase and conversational.
`

// DefaultTemplates seeds a new tenant. The first one becomes the default.
var DefaultTemplates = []entity.Template{
	{
		Name:        "Professional Networking",
		Description: "Genuine networking outreach that gets replies, not spam flags",
		Category:    "networking",
		SystemPrompt: `You are a writing assistant helping craft genuine networking emails.
Your goal is to write emails that sound like they came from a real person who is genuinely curious.
` + antiSpamRules + `
## OUTPUT FORMAT:
Return ONLY valid JSON with "subject" and "body" keys. No markdown, no extra text.`,
		UserPromptTemplate: `
**WHO I AM:**
Name: {{sender_name}}
Background: {{sender_pitch}}
What I'm looking for: {{sender_goal}}

**WHO I'M WRITING TO:**
Name: {{recipient_first_name}}
Role: {{recipient_job_title}}
Company: {{recipient_company}}

**TASK:**
Write a short networking email (under 100 words). I want to learn from their experience, not ask for a job.
Do NOT include a signature - it gets added automatically.

Return ONLY: {"subject": "...", "body": "Hi {{recipient_first_name}}, ..."}
`,
	},
	{
		Name:        "Sales - Value First",
		Description: "Cold outreach focused on giving value, not asking for a meeting",
		Category:    "sales",
		SystemPrompt: `You are a sales email writer focused on providing value, not pitching.
The goal of email #1 is to start a conversation, NOT to book a meeting.
` + antiSpamRules + `
## SALES-SPECIFIC RULES:
- Lead with an insight or observation about their company
- Offer something useful (a resource, idea, or question)
- Do NOT pitch your product in email #1
- End with a low-commitment question, not a meeting request

## OUTPUT FORMAT:
Return ONLY valid JSON with "subject" and "body" keys.`,
		UserPromptTemplate: `
**SENDER:**
Name: {{sender_name}}
Company: {{sender_organization}}
What we do: {{sender_pitch}}

**RECIPIENT:**
Name: {{recipient_first_name}}
Role: {{recipient_job_title}}
Company: {{recipient_company}}

**TASK:**
Write a value-first cold email. DO NOT ask for a meeting. Just start a conversation.
No signature needed.

Return ONLY: {"subject": "...", "body": "..."}
`,
	},
	{
		Name:        "Student Outreach",
		Description: "For students seeking internships, mentorship, or career advice",
		Category:    "networking",
		SystemPrompt: `You are helping a student write genuine networking emails to professionals.
Students have an advantage: people WANT to help students. Lean into curiosity and humility.
` + antiSpamRules + `
## STUDENT-SPECIFIC RULES:
- Lead with genuine curiosity about their career path
- Mention ONE specific thing you're working on
- Ask a specific question they'd enjoy answering
- Don't ask for an internship directly - ask for advice

## OUTPUT FORMAT:
Return ONLY valid JSON with "subject" and "body" keys.`,
		UserPromptTemplate: `
**STUDENT:**
Name: {{sender_name}}
School: {{sender_organization}}
Major: {{sender_major}}
Graduation: {{sender_graduation_year}}
Relevant work: {{sender_pitch}}
Goal: {{sender_goal}}

**PROFESSIONAL:**
Name: {{recipient_first_name}}
Role: {{recipient_job_title}}
Company: {{recipient_company}}

**TASK:**
Write an email showing genuine interest in their career. Ask for advice, not a job.
No signature.

Return ONLY: {"subject": "...", "body": "Hi {{recipient_first_name}}, ..."}
`,
	},
}

// BuiltinTemplates serves DefaultTemplates without a database, for local
// runs. IDs are the template names.
type BuiltinTemplates struct {
	defaultName string
}

func NewBuiltinTemplates(defaultName string) *BuiltinTemplates {
	if defaultName == "" {
		defaultName = DefaultTemplates[0].Name
	}
	return &BuiltinTemplates{defaultName: defaultName}
}

func (b *BuiltinTemplates) FindByID(_ context.Context, _, id string) (*entity.Template, error) {
	for i := range DefaultTemplates {
		if strings.EqualFold(DefaultTemplates[i].Name, id) {
			t := DefaultTemplates[i]
			t.ID = t.Name
			t.IsActive = true
			t.IsDefault = strings.EqualFold(t.Name, b.defaultName)
			return &t, nil
		}
	}
	return nil, entity.ErrTemplateNotFound
}

func (b *BuiltinTemplates) FindDefault(ctx context.Context, tenantID string) (*entity.Template, error) {
	return b.FindByID(ctx, tenantID, b.defaultName)
}
