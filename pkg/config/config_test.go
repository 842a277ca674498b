package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
functions:
  - expression: "1/x"
detector:
  jump_factor: 3
`))
	require.NoError(t, err)

	assert.Equal(t, analyze.DefaultWindow(), cfg.Window)
	require.Len(t, cfg.Functions, 1)
	assert.Equal(t, "1/x", cfg.Functions[0].Expression)

	want := *analyze.DefaultDetector()
	want.JumpFactor = 3
	assert.Equal(t, want, cfg.Detector)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "Missing Expression",
			yaml: "functions:\n  - color: \"#ff0000\"\n",
		},
		{
			name: "Bad Color",
			yaml: "functions:\n  - expression: x\n    color: red\n",
		},
		{
			name: "Too Few Samples",
			yaml: "detector:\n  samples: 1\n",
		},
		{
			name: "Negative Factor",
			yaml: "detector:\n  hole_factor: -1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var verrs validator.ValidationErrors
			assert.True(t, errors.As(err, &verrs), "got %v", err)
		})
	}
}

func TestParse_BadWindow(t *testing.T) {
	_, err := Parse([]byte("window: {x_min: 5, x_max: -5, y_min: -1, y_max: 1}\n"))
	assert.True(t, errors.Is(err, analyze.ErrInvalidWindow))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("functions: [\n"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	cfg := Default()
	cfg.Window = analyze.Window{XMin: -2, XMax: 8, YMin: -3, YMax: 3}
	cfg.Functions = append(cfg.Functions, Function{Expression: "sin(x)", Color: "#ff6b6b", Hidden: true})
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
