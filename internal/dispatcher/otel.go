package dispatcher

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName names the meter the dispatcher's instruments live on.
const InstrumentationName = "github.com/OCAP2/fleet/internal/dispatcher"

func meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}
