package renderer

import (
	"github.com/pkg/errors"

	"github.com/solar-nl/wgpu-spielerei/graphics"
	"github.com/solar-nl/wgpu-spielerei/shader"
	"github.com/solar-nl/wgpu-spielerei/translator"
)

// TranslateFunc turns a complete WebGL2 fragment shader into the backend's
// dialect and reports the compiled names of the requested uniforms.
type TranslateFunc func(source string, uniforms []string) (string, map[string]string, error)

// PassThrough keeps the source and the uniform names unchanged.
func PassThrough(source string, uniforms []string) (string, map[string]string, error) {
	mapped := make(map[string]string, len(uniforms))
	for _, u := range uniforms {
		mapped[u] = u
	}
	return source, mapped, nil
}

// pipelineDesc wraps the user fragment code in the standard preamble,
// translates it and pairs it with the full-screen-triangle vertex stage.
func pipelineDesc(user string, channels int, translate TranslateFunc) (graphics.PipelineDesc, error) {
	if translate == nil {
		translate = translator.Fragment
	}
	if user == "" {
		user = shader.DemoFragmentShader()
	}
	names := shader.UniformNames(channels)
	code, mapped, err := translate(shader.GetFragmentShader(channels, user), names)
	if err != nil {
		return graphics.PipelineDesc{}, errors.Wrap(err, "build fragment stage")
	}
	return graphics.PipelineDesc{
		Label:          "feedback",
		VertexSource:   shader.GenerateVertexShader(),
		FragmentSource: code,
		UniformNames:   mapped,
		Channels:       channels,
	}, nil
}
