package markdown

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter finds YAML frontmatter between leading --- delimiters and
// returns it together with the byte offset at which the Markdown body begins.
// Without valid frontmatter the offset is 0 and the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, int) {
	const delim = "---"
	if !bytes.HasPrefix(data, []byte(delim+"\n")) && !bytes.HasPrefix(data, []byte(delim+"\r\n")) {
		return nil, 0
	}

	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, 0
	}

	yamlBlock := rest[:idx]
	end := len(delim) + idx + 1 + len(delim)

	// The closing delimiter must stand alone on its line.
	tail := data[end:]
	switch {
	case len(tail) == 0:
	case tail[0] == '\n':
		end++
	case bytes.HasPrefix(tail, []byte("\r\n")):
		end += 2
	default:
		return nil, 0
	}

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: fall back to treating everything as body.
		return nil, 0
	}
	return fm, end
}
