package ptyprocess

import shellquote "github.com/kballard/go-shellquote"

// ParseCommand normalizes the command argument New accepts: either a
// single string, split using POSIX shell-quoting rules (unquoted
// whitespace separates, single/double quotes group, backslash escapes the
// next character), or a non-empty []string used verbatim.
func ParseCommand(command interface{}) ([]string, error) {
	switch v := command.(type) {
	case string:
		argv, err := shellquote.Split(v)
		if err != nil {
			return nil, newError(BadParameter, "could not parse command string", nil, err)
		}
		if len(argv) == 0 {
			return nil, newError(BadParameter, "PTYProcess expects a non-empty command", nil, nil)
		}
		return argv, nil

	case []string:
		if len(v) == 0 {
			return nil, newError(BadParameter, "PTYProcess expects a non-empty command", nil, nil)
		}
		return append([]string(nil), v...), nil

	default:
		return nil, newError(BadParameter, "PTYProcess expects a string or []string command", nil, nil)
	}
}
