package ai

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"gopkg.in/yaml.v3"
)

//go:embed functions.yaml
var functionsYAML []byte

// Menu is the system prompt plus the functions offered to the model.
type Menu struct {
	SystemPrompt string         `yaml:"system_prompt"`
	Functions    []FunctionSpec `yaml:"functions"`
}

type FunctionSpec struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Parameters  map[string]ParamSpec `yaml:"parameters"`
}

type ParamSpec struct {
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Enum        []string `yaml:"enum"`
	Required    bool     `yaml:"required"`
}

var paramTypes = map[string]schema.DataType{
	"string":  schema.String,
	"integer": schema.Integer,
	"number":  schema.Number,
	"boolean": schema.Boolean,
}

// DefaultMenu parses the embedded function menu.
func DefaultMenu() (*Menu, error) {
	return LoadMenu(functionsYAML)
}

func LoadMenu(data []byte) (*Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse function menu: %w", err)
	}
	if len(m.Functions) == 0 {
		return nil, errors.New("function menu is empty")
	}
	seen := make(map[string]bool, len(m.Functions))
	for _, f := range m.Functions {
		if f.Name == "" {
			return nil, errors.New("function without name")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate function %s", f.Name)
		}
		seen[f.Name] = true
		for name, p := range f.Parameters {
			if _, ok := paramTypes[p.Type]; !ok {
				return nil, fmt.Errorf("%s.%s: unsupported type %q", f.Name, name, p.Type)
			}
		}
	}
	return &m, nil
}

// Tools converts the menu into eino tool definitions.
func (m *Menu) Tools() []*schema.ToolInfo {
	tools := make([]*schema.ToolInfo, 0, len(m.Functions))
	for _, f := range m.Functions {
		params := make(map[string]*schema.ParameterInfo, len(f.Parameters))
		for name, p := range f.Parameters {
			params[name] = &schema.ParameterInfo{
				Type:     paramTypes[p.Type],
				Desc:     p.Description,
				Enum:     p.Enum,
				Required: p.Required,
			}
		}
		tools = append(tools, &schema.ToolInfo{
			Name:        f.Name,
			Desc:        f.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return tools
}

func (m *Menu) Names() []string {
	names := make([]string, 0, len(m.Functions))
	for _, f := range m.Functions {
		names = append(names, f.Name)
	}
	return names
}
