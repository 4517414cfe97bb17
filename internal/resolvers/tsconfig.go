package resolvers

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TsConfig is the subset of tsconfig.json used for path-alias resolution.
// It is only held for the duration of one analysis run.
type TsConfig struct {
	// BaseURL is the base directory for non-relative specifiers,
	// relative to the repo root. Empty means the repo root itself.
	BaseURL string

	// Paths maps alias patterns (at most one "*" wildcard) to lists of
	// replacement globs.
	Paths map[string][]string
}

// LoadTsConfig reads tsconfig.json at repoRoot. Missing or malformed
// config is treated as absent configuration, never as an error. Line and
// block comments are tolerated since tsconfig files commonly carry them.
func LoadTsConfig(repoRoot string) TsConfig {
	data, err := os.ReadFile(filepath.Join(repoRoot, "tsconfig.json"))
	if err != nil {
		return TsConfig{}
	}

	var raw struct {
		CompilerOptions struct {
			BaseURL string                     `json:"baseUrl"`
			Paths   map[string]json.RawMessage `json:"paths"`
		} `json:"compilerOptions"`
	}
	if err := json.Unmarshal(stripJSONComments(data), &raw); err != nil {
		return TsConfig{}
	}

	config := TsConfig{BaseURL: raw.CompilerOptions.BaseURL}
	if len(raw.CompilerOptions.Paths) > 0 {
		config.Paths = make(map[string][]string, len(raw.CompilerOptions.Paths))
		for pattern, value := range raw.CompilerOptions.Paths {
			// Replacement may be a list or a single string.
			var list []string
			if err := json.Unmarshal(value, &list); err == nil {
				config.Paths[pattern] = list
				continue
			}
			var single string
			if err := json.Unmarshal(value, &single); err == nil {
				config.Paths[pattern] = []string{single}
			}
		}
	}
	return config
}

// stripJSONComments removes // and /* */ comments outside of string
// literals so the stdlib JSON decoder can handle JSONC-style configs.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(data); i++ {
		c := data[i]

		switch {
		case lineComment:
			if c == '\n' {
				lineComment = false
				out = append(out, c)
			}
		case blockComment:
			if c == '*' && i+1 < len(data) && data[i+1] == '/' {
				blockComment = false
				i++
			}
		case inString:
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			lineComment = true
			i++
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			blockComment = true
			i++
		default:
			out = append(out, c)
		}
	}
	return out
}
