package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		key     string
		wantErr string
	}{
		{name: "daily-do template", file: "enhancement.json", key: "daily-do-items"},
		{name: "file not embedded", file: "resume.json", key: "daily-do-items", wantErr: "is not embedded"},
		{name: "unknown key", file: "enhancement.json", key: "weekly-plan", wantErr: `"weekly-plan" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template, err := Get(tt.file, tt.key)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, template)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, template, "{{.Method}}")
		})
	}
}

func TestGet_ReturnsSameTemplateEachCall(t *testing.T) {
	first, err := Get("enhancement.json", "daily-do-items")
	require.NoError(t, err)
	second, err := Get("enhancement.json", "daily-do-items")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMustGet(t *testing.T) {
	assert.NotEmpty(t, MustGet("enhancement.json", "daily-do-items"))
	assert.PanicsWithValue(t,
		`failed to load prompt: prompt key "missing" not found in enhancement.json`,
		func() { MustGet("enhancement.json", "missing") })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "fills every placeholder",
			template: "{{.RoleModel}} teaches {{.Attribute}}",
			data:     map[string]string{"RoleModel": "Seneca", "Attribute": "Equanimity"},
			want:     "Seneca teaches Equanimity",
		},
		{
			name:     "repeated placeholder",
			template: "{{.Name}} / {{.Name}}",
			data:     map[string]string{"Name": "Epictetus"},
			want:     "Epictetus / Epictetus",
		},
		{
			name:     "missing value leaves placeholder",
			template: "Level: {{.UserLevel}}",
			data:     map[string]string{},
			want:     "Level: {{.UserLevel}}",
		},
		{
			name:     "unused value ignored",
			template: "plain text",
			data:     map[string]string{"Method": "journal"},
			want:     "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	template := "Method: {{.Method}} / Role: {{.RoleModel}}"
	data := map[string]string{
		"Method":    "say {{.RoleModel}} out loud",
		"RoleModel": "Seneca",
	}

	for i := 0; i < 20; i++ {
		result := Format(template, data)
		assert.Equal(t, "Method: say {{.RoleModel}} out loud / Role: Seneca", result)
	}
}
