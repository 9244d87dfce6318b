package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"ytdigest/internal/models"
)

// ParseLimit reads --limit, defaulting to 10.
func ParseLimit(flags *pflag.FlagSet) int {
	limit, _ := flags.GetInt("limit")
	if limit <= 0 {
		limit = 10
	}
	return limit
}

// ParseLanguages reads the comma separated --lang flag. An unset flag
// returns nil so the configured order applies.
func ParseLanguages(flags *pflag.FlagSet) []string {
	raw, _ := flags.GetString("lang")
	var langs []string
	for _, l := range strings.Split(raw, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(l)); trimmed != "" {
			langs = append(langs, trimmed)
		}
	}
	return langs
}

// ParseMode reads --mode and checks it against the supported summary modes.
func ParseMode(flags *pflag.FlagSet) (string, error) {
	mode, _ := flags.GetString("mode")
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return models.ModeDetailed, nil
	}
	if !models.ValidMode(mode) {
		return "", fmt.Errorf("invalid mode %q (want %s, %s or %s)", mode, models.ModeDetailed, models.ModeBrief, models.ModeBullets)
	}
	return mode, nil
}
