package providers

import (
	"github.com/utkalworks/floorops/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
