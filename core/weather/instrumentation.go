package weather

import (
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/imant686/samantha/core/weather"

var tracer = otel.Tracer(scopeName)
