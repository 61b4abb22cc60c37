package appstream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vietdv277/appsctl/internal/adapter"
	"github.com/vietdv277/appsctl/internal/aws"
	"github.com/vietdv277/appsctl/internal/ui"
)

// flagName returns the command line flag of a request field, e.g.
// AuthenticationType -> --authentication-type
func flagName(p adapter.Param) string {
	return adapter.Kebab(p.Name)
}

func flagUsage(p adapter.Param) string {
	usage := p.Usage
	if p.Kind == adapter.KindEnum {
		usage += " (" + strings.Join(p.Enum, ", ") + ")"
	}
	if p.Required {
		usage += " [required]"
	}
	return usage
}

// addParamFlags registers one flag per request parameter. Values are only
// bound when the flag was set, so defaults here never reach the request.
func addParamFlags(flags *pflag.FlagSet, op *aws.Operation) {
	for _, p := range op.Params {
		name, usage := flagName(p), flagUsage(p)
		switch p.Kind {
		case adapter.KindInt:
			flags.Int(name, 0, usage)
		case adapter.KindBool:
			flags.Bool(name, false, usage)
		case adapter.KindStringList:
			flags.StringSlice(name, nil, usage)
		case adapter.KindStringMap:
			flags.StringToString(name, nil, usage)
		default:
			flags.String(name, "", usage)
		}
	}
}

// positionalParam returns the parameter bound from positional arguments
func positionalParam(op *aws.Operation) (adapter.Param, bool) {
	for _, p := range op.Params {
		if p.Positional {
			return p, true
		}
	}
	return adapter.Param{}, false
}

// collectParams gathers the parameters set on the command line
func collectParams(flags *pflag.FlagSet, op *aws.Operation, args []string) (map[string]any, error) {
	params := make(map[string]any)

	for _, p := range op.Params {
		if !flags.Changed(flagName(p)) {
			continue
		}
		v, err := flagValue(flags, p)
		if err != nil {
			return nil, err
		}
		params[p.Name] = v
	}

	if len(args) == 0 {
		return params, nil
	}

	p, ok := positionalParam(op)
	if !ok {
		return nil, fmt.Errorf("%s takes no arguments", op.CommandName())
	}
	if _, set := params[p.Name]; set {
		return nil, fmt.Errorf("%s given both as argument and --%s", p.Name, flagName(p))
	}
	if p.Kind == adapter.KindStringList {
		params[p.Name] = args
	} else {
		params[p.Name] = args[0]
	}

	return params, nil
}

func flagValue(flags *pflag.FlagSet, p adapter.Param) (any, error) {
	name := flagName(p)

	switch p.Kind {
	case adapter.KindInt:
		return flags.GetInt(name)
	case adapter.KindBool:
		return flags.GetBool(name)
	case adapter.KindStringList:
		return flags.GetStringSlice(name)
	case adapter.KindStringMap:
		return flags.GetStringToString(name)
	}

	s, err := flags.GetString(name)
	if err != nil {
		return nil, err
	}

	switch p.Kind {
	case adapter.KindEnum:
		return enumValue(p, s)
	case adapter.KindJSON:
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("invalid JSON for --%s: %w", name, err)
		}
		return v, nil
	default:
		return s, nil
	}
}

// enumValue matches s case-insensitively against the allowed values and
// returns the canonical spelling
func enumValue(p adapter.Param, s string) (string, error) {
	for _, allowed := range p.Enum {
		if strings.EqualFold(s, allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("invalid value %q for --%s (expected one of %s)", s, flagName(p), strings.Join(p.Enum, ", "))
}

// readPipedValues reads one value per line from stdin when it is a pipe or a
// file. Blank lines and lines starting with # are skipped.
func readPipedValues(stdin *os.File) ([]any, error) {
	if stdin == nil || ui.IsTerminal(stdin) {
		return nil, nil
	}
	fi, err := stdin.Stat()
	if err != nil {
		return nil, nil
	}
	if fi.Mode()&os.ModeNamedPipe == 0 && !fi.Mode().IsRegular() {
		return nil, nil
	}

	var values []any
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values = append(values, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return values, nil
}
