package tool

import "strings"

// Invocation is the structured decision to fire one tool with arguments.
// An agent performs at most one invocation per call; there is no loop.
type Invocation struct {
	Name string
	Args map[string]any
	// Rest is the task input with the directive stripped, used as the
	// remaining prompt text.
	Rest string
}

// Selector decides whether a task input triggers a tool. Returning nil
// means no tool fires. The policy is injectable so alternative triggers can
// be tested in isolation.
type Selector func(input string) *Invocation

// DirectiveSelector parses an explicit directive at the head of the input:
//
//	@tool-name key=value other="quoted value" rest of the prompt...
//
// Argument values are plain text; schema validation coerces them later.
// Inputs without a leading '@' never trigger a tool.
func DirectiveSelector(input string) *Invocation {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "@") {
		return nil
	}
	fields := splitDirective(trimmed[1:])
	if len(fields) == 0 || fields[0] == "" {
		return nil
	}
	inv := &Invocation{Name: fields[0], Args: make(map[string]any)}
	i := 1
	for ; i < len(fields); i++ {
		key, value, ok := strings.Cut(fields[i], "=")
		if !ok {
			break
		}
		inv.Args[key] = value
	}
	inv.Rest = strings.TrimSpace(strings.Join(fields[i:], " "))
	return inv
}

// splitDirective splits on spaces while honoring double-quoted values.
func splitDirective(s string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				fields = append(fields, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}
