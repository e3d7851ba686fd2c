package workflow

import (
	"fmt"
	"os"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// definition mirrors the YAML layout of a workflow file.
// Tools are kept raw here because an entry may be a bare boolean
// ("black: true") or a full option map; the mapper sorts that out.
type definition struct {
	Name    string         `yaml:"name"`
	On      any            `yaml:"on"`
	Python  pythonDef      `yaml:"python"`
	Tools   map[string]any `yaml:"tools"`
	AutoFix *bool          `yaml:"auto_fix"`
	Commit  commitDef      `yaml:"commit"`
	Push    pushDef        `yaml:"push"`
}

type pythonDef struct {
	Version string `yaml:"version"`
}

type commitDef struct {
	Enabled *bool  `yaml:"enabled"`
	Message string `yaml:"message"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
}

type pushDef struct {
	Enabled  *bool  `yaml:"enabled"`
	Remote   string `yaml:"remote"`
	TokenEnv string `yaml:"token_env"`
}

// Defaults applied when the workflow file leaves fields out.
const (
	DefaultCommitMessage = "Fix code style issues with ${linter}"
	DefaultBotName       = "Lint Action"
	DefaultBotEmail      = "lint-action@localhost"
	DefaultRemote        = "origin"
	DefaultTokenEnv      = "STYLEBOT_TOKEN"
)

// Load reads, parses and validates a workflow file.
func Load(path string) (*domain.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	wf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wf, nil
}

// Parse decodes a workflow definition and validates it.
func Parse(data []byte) (*domain.Workflow, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid workflow yaml: %w", err)
	}

	wf, err := mapDefinition(&def)
	if err != nil {
		return nil, err
	}
	if err := Validate(wf); err != nil {
		return nil, err
	}
	return wf, nil
}

func mapDefinition(def *definition) (*domain.Workflow, error) {
	wf := &domain.Workflow{
		Name:    def.Name,
		Trigger: normalizeTrigger(def.On),
		Python:  domain.PythonConfig{Version: def.Python.Version},
		Tools:   make(map[string]domain.ToolConfig, len(def.Tools)),
		AutoFix: boolOr(def.AutoFix, true),
		Commit: domain.CommitConfig{
			Enabled: boolOr(def.Commit.Enabled, true),
			Message: stringOr(def.Commit.Message, DefaultCommitMessage),
			Name:    stringOr(def.Commit.Name, DefaultBotName),
			Email:   stringOr(def.Commit.Email, DefaultBotEmail),
		},
		Push: domain.PushConfig{
			Enabled:  boolOr(def.Push.Enabled, true),
			Remote:   stringOr(def.Push.Remote, DefaultRemote),
			TokenEnv: stringOr(def.Push.TokenEnv, DefaultTokenEnv),
		},
	}

	for name, raw := range def.Tools {
		cfg, err := decodeTool(raw)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", name, err)
		}
		wf.Tools[name] = cfg
	}

	return wf, nil
}

// decodeTool accepts the shorthand boolean form or a full option map.
func decodeTool(raw any) (domain.ToolConfig, error) {
	switch v := raw.(type) {
	case bool:
		return domain.ToolConfig{Enabled: v}, nil
	case nil:
		return domain.ToolConfig{Enabled: true}, nil
	default:
		var cfg domain.ToolConfig
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &cfg,
			ErrorUnused: true,
		})
		if err != nil {
			return cfg, err
		}
		if err := dec.Decode(v); err != nil {
			return cfg, fmt.Errorf("invalid tool options: %w", err)
		}
		return cfg, nil
	}
}

// normalizeTrigger flattens the "on" field. A single-element list is
// treated like its scalar form; anything else is preserved verbatim so
// validation can reject it with a useful message.
func normalizeTrigger(on any) string {
	switch v := on.(type) {
	case string:
		return v
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
