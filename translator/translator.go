package translator

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = errors.Wrap(initErr, "start shader translator")
		}
	})
	return translator, initErr
}

// Fragment translates a WebGL2 fragment shader to desktop GLSL 4.10. It
// returns the translated code and the mapped name of every requested
// uniform the translator kept.
func Fragment(source string, uniforms []string) (string, map[string]string, error) {
	t, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}
	out, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, errors.Wrap(err, "fragment shader translation failed")
	}
	mapped := make(map[string]string, len(uniforms))
	for _, name := range uniforms {
		if v, ok := out.Variables[name]; ok {
			mapped[name] = v.MappedName
		}
	}
	return out.Code, mapped, nil
}
