package config

import (
	"time"

	"leadtimecli/pkg/contracts"
)

// Application constants
const (
	AppName    = "Lead Time Pulse"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (LEADTIME_SERVER_PORT, ...)
	EnvPrefix = "LEADTIME"

	// ConfigFileEnv names the variable that points at a YAML config file
	ConfigFileEnv = "LEADTIME_CONFIG_FILE"

	// Required input columns
	ColumnBrand         = "desc_marca"
	ColumnChannel       = "desc_canal_venda"
	ColumnShipDate      = "dat_embarque"
	ColumnInvoiceDate   = "dat_emissao_nf"
	ColumnCity          = "nom_cidade"
	ColumnInvoiceNumber = "num_nota_fiscal"

	// Derived columns appended to exports
	ColumnEventDate    = "data"
	ColumnChannelGroup = "canal_agrupado"
	ColumnLeadTime     = "leadtime_dias"

	// ExportDateLayout renders dates as day/month/year
	ExportDateLayout = "02/01/2006"

	DefaultTopN          = 10
	DefaultContextTopN   = 5
	DefaultTrendWindow   = 3
	DefaultCacheEntries  = 16
	DefaultMaxUploadSize = 32 << 20

	DefaultHTTPTimeout = 30 * time.Second
)

// DefaultBrands is the brand allow-list used when none is configured
var DefaultBrands = []string{"PAPAIZ", "LA FONTE", "SILVANA CD SP"}

// DefaultDateLayouts are tried in order when parsing input dates. Slash dates
// are read day-first, matching the export format.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006/01/02",
}
