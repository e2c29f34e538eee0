package includes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// <!--@include: <path>( {<start>,<end>})? -->
//
// Relative paths resolve against the including file, paths starting with
// @/ against the docs root.
var reIncludeDirective = regexp.MustCompile(
	`<!--\s*@include:\s*(?P<path>[^\s{]+?)\s*` +
		`(?:\{(?P<start>\d*)(?P<comma>,)?(?P<end>\d*)\})?\s*-->`,
)

// reFencedCodeBlock matches fenced code block markers (``` or ~~~) together
// with the rest of their line.
var reFencedCodeBlock = regexp.MustCompile("(?m)^(```+|~~~+)(.*)$")

// codeBlockRange is a byte range of contents covered by a fenced code block.
type codeBlockRange struct {
	start int
	end   int
}

// findCodeBlockRanges finds all fenced code block ranges in the content.
// An unterminated fence runs to the end of the content.
func findCodeBlockRanges(contents []byte) []codeBlockRange {
	var ranges []codeBlockRange

	matches := reFencedCodeBlock.FindAllSubmatchIndex(contents, -1)

	for i := 0; i < len(matches); {
		openStart := matches[i][0]
		openFence := contents[matches[i][2]:matches[i][3]]

		closed := false
		for j := i + 1; j < len(matches); j++ {
			closeFence := contents[matches[j][2]:matches[j][3]]
			closeRest := contents[matches[j][4]:matches[j][5]]

			// Closing fence uses the same character, is at least as long as
			// the opening one and carries no info string.
			if closeFence[0] != openFence[0] ||
				len(closeFence) < len(openFence) ||
				len(bytes.TrimSpace(closeRest)) > 0 {
				continue
			}

			end := matches[j][1]
			if end < len(contents) {
				end++ // include the newline
			}

			ranges = append(ranges, codeBlockRange{start: openStart, end: end})
			i = j + 1
			closed = true

			break
		}

		if !closed {
			ranges = append(ranges, codeBlockRange{start: openStart, end: len(contents)})
			break
		}
	}

	return ranges
}

// isInsideCodeBlock checks if the given position is inside any code block
func isInsideCodeBlock(pos int, ranges []codeBlockRange) bool {
	for _, r := range ranges {
		if pos >= r.start && pos < r.end {
			return true
		}
	}
	return false
}

// ProcessIncludes replaces include directives in contents of the file at
// path with the referenced markdown, recursively. Directives inside fenced
// code blocks are kept as is.
func ProcessIncludes(root string, path string, contents []byte) ([]byte, error) {
	return processIncludes(root, path, contents, []string{filepath.Clean(path)})
}

func processIncludes(root string, path string, contents []byte, stack []string) ([]byte, error) {
	matches := reIncludeDirective.FindAllSubmatchIndex(contents, -1)
	if len(matches) == 0 {
		return contents, nil
	}

	codeBlockRanges := findCodeBlockRanges(contents)

	var (
		result  []byte
		lastEnd = 0
	)

	for _, match := range matches {
		matchStart, matchEnd := match[0], match[1]

		result = append(result, contents[lastEnd:matchStart]...)
		lastEnd = matchEnd

		if isInsideCodeBlock(matchStart, codeBlockRanges) {
			result = append(result, contents[matchStart:matchEnd]...)
			continue
		}

		group := func(index int) string {
			if match[2*index] < 0 {
				return ""
			}

			return string(contents[match[2*index]:match[2*index+1]])
		}

		var (
			target = resolve(root, path, group(1))
			facts  = karma.Describe("file", path).Describe("include", group(1))
		)

		for _, seen := range stack {
			if seen == target {
				return nil, facts.Format(
					nil,
					"include cycle: %s -> %s",
					strings.Join(stack, " -> "),
					target,
				)
			}
		}

		log.Tracef(facts, "including %q", target)

		body, err := os.ReadFile(target)
		if err != nil {
			return nil, facts.Format(err, "unable to read included file")
		}

		body = bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))

		if group(2) != "" || group(3) != "" || group(4) != "" {
			body, err = selectLines(body, group(2), group(3) != "", group(4))
			if err != nil {
				return nil, facts.Format(err, "unable to select included lines")
			}
		}

		body, err = processIncludes(root, target, body, append(stack, target))
		if err != nil {
			return nil, err
		}

		result = append(result, body...)
	}

	result = append(result, contents[lastEnd:]...)

	return result, nil
}

func resolve(root string, path string, include string) string {
	if rest, ok := strings.CutPrefix(include, "@/"); ok {
		return filepath.Join(root, filepath.FromSlash(rest))
	}

	return filepath.Join(filepath.Dir(path), filepath.FromSlash(include))
}

// selectLines keeps the 1-based inclusive line range of body. A missing
// start means the first line, a missing end the last one; {n} selects line
// n only.
func selectLines(body []byte, start string, comma bool, end string) ([]byte, error) {
	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")

	from, err := lineNumber(start, 1)
	if err != nil {
		return nil, err
	}

	to := from
	if comma {
		to, err = lineNumber(end, len(lines))
		if err != nil {
			return nil, err
		}
	}

	if from < 1 || to > len(lines) || from > to {
		return nil, fmt.Errorf(
			"line range %d-%d is out of bounds, file has %d lines",
			from, to, len(lines),
		)
	}

	return []byte(strings.Join(lines[from-1:to], "\n") + "\n"), nil
}

func lineNumber(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, karma.Format(err, "invalid line number %q", value)
	}

	return number, nil
}
