package clix

import (
	"fmt"
	"strings"

	"promptpilot/pkg/categorizer"

	"github.com/spf13/pflag"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseCategory reads the optional --category flag. An empty flag returns "".
func ParseCategory(flags *pflag.FlagSet) (string, error) {
	raw, _ := flags.GetString("category")
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", nil
	}
	c, ok := categorizer.ParseCategory(raw)
	if !ok {
		return "", fmt.Errorf("unknown category %q (want one of chat, code, reasoning, writing, multimodal)", raw)
	}
	return c.String(), nil
}
