package recommendations

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"strings"
	"text/template"

	"brew-backend/internal/catalog"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/recommendation.tmpl
var userPromptTemplate string

var userPrompt = template.Must(template.New("recommendation").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(userPromptTemplate))

// SystemPrompt returns the fixed system instruction.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// BuildPrompt renders the user prompt for a pair. Output depends only on
// the catalog entries.
func BuildPrompt(bean catalog.CoffeeBean, machine catalog.BrewingMachine) (string, error) {
	var buf bytes.Buffer
	err := userPrompt.Execute(&buf, struct {
		Bean    catalog.CoffeeBean
		Machine catalog.BrewingMachine
	}{Bean: bean, Machine: machine})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// promptHash identifies a rendered prompt in logs without logging it.
func promptHash(system, prompt string) string {
	sum := sha256.Sum256([]byte(system + "\n" + prompt))
	return hex.EncodeToString(sum[:])[:12]
}
