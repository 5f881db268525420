package local

import (
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/imant686/samantha/core/texttospeech/local"

var tracer = otel.Tracer(scopeName)
