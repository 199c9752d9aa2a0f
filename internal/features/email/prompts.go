package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

type languagePrompt struct {
	Instruction string `yaml:"instruction"`
	Failure     string `yaml:"failure"`
}

// PromptSet holds the system prompt, the user prompt template and the
// per-language texts.
type PromptSet struct {
	System    string                      `yaml:"system"`
	User      string                      `yaml:"user"`
	Languages map[Language]languagePrompt `yaml:"languages"`

	user *template.Template
}

// PromptData is the structured context rendered into the user prompt.
type PromptData struct {
	Instruction             string
	ProcessKind             string
	Status                  string
	SubjectName             string
	CounterpartyName        string
	StepKind                string
	StepDate                string
	StepNotes               string
	SuccessChance           int
	HasSuccessChance        bool
	Checklist               string
	NextReminder            string
	NextReminderDescription string
	Notes                   string
	Attachments             string
	SenderName              string
	SenderContact           string
}

func LoadPrompts(data []byte) (*PromptSet, error) {
	var ps PromptSet
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if _, ok := ps.Languages[LanguageGerman]; !ok {
		return nil, fmt.Errorf("prompts: missing %q language", LanguageGerman)
	}
	tmpl, err := template.New("user").Parse(ps.User)
	if err != nil {
		return nil, fmt.Errorf("parse user prompt: %w", err)
	}
	ps.user = tmpl
	return &ps, nil
}

func DefaultPrompts() (*PromptSet, error) {
	return LoadPrompts(defaultPrompts)
}

func (ps *PromptSet) language(l Language) languagePrompt {
	if lp, ok := ps.Languages[l]; ok {
		return lp
	}
	return ps.Languages[LanguageGerman]
}

func (ps *PromptSet) RenderUser(l Language, data PromptData) (string, error) {
	data.Instruction = ps.language(l).Instruction
	var buf bytes.Buffer
	if err := ps.user.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (ps *PromptSet) FailureText(l Language) string {
	return ps.language(l).Failure
}
