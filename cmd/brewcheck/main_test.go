package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brew-backend/internal/shared/config"
)

func execute(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	beanID, machineID, rawOutput, outPath = "", "", false, ""
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFallbackCommand(t *testing.T) {
	out, err := execute(t, config.Config{}, "fallback", "--bean", "1", "--machine", "3")
	require.NoError(t, err)

	var body struct {
		Key            string `json:"key"`
		Recommendation struct {
			GrindSize string `json:"grindSize"`
		} `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "dark-espresso", body.Key)
	assert.Equal(t, "fine", body.Recommendation.GrindSize)
}

func TestFallbackCommandUnknownBean(t *testing.T) {
	_, err := execute(t, config.Config{}, "fallback", "--bean", "99", "--machine", "3")
	require.Error(t, err)
}

func TestGenerateRequiresKey(t *testing.T) {
	_, err := execute(t, config.Config{LLMProvider: "anthropic", AITimeoutSeconds: 8}, "generate", "--bean", "1", "--machine", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key")
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, config.Config{}, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Hario")
	assert.Contains(t, out, "smooth, nutty, classic")
	assert.Equal(t, 4+9+3, len(strings.Split(strings.TrimSpace(out), "\n")))
}
