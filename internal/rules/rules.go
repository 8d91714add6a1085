// Package rules define o catálogo fixo de assinaturas de credenciais.
package rules

import "regexp"

// Rule é uma assinatura nomeada. Imutável depois de criada.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// New compila o padrão e entra em pânico se ele for inválido; o catálogo é
// estático, então um padrão quebrado é erro de programação.
func New(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern)}
}

// Match reporta se o conteúdo contém alguma ocorrência da regra.
func (r Rule) Match(b []byte) bool {
	return r.Pattern.Match(b)
}

var catalog = []Rule{
	New("Google API key", `AIza[0-9A-Za-z_-]{35}`),
	New("Gemini key assignment", `GEMINI_API_KEY=[A-Za-z0-9]{20,}`),
	New("Slack bot token", `xoxb-[0-9]+-[0-9]+-[0-9]+-[A-Za-z0-9]{24}`),
	New("Slack user token", `xoxp-[0-9]+-[0-9]+-[0-9]+-[A-Za-z0-9]{24}`),
	New("OpenAI key", `sk-[A-Za-z0-9]{48}`),
	New("Generic API key assignment", `(?i)api_key\s*=\s*["'][A-Za-z0-9]{20,}["']`),
	New("Generic secret key assignment", `(?i)secret_key\s*=\s*["'][A-Za-z0-9]{20,}["']`),
}

// Catalog devolve uma cópia do catálogo na ordem de relatório.
func Catalog() []Rule {
	return append([]Rule(nil), catalog...)
}
