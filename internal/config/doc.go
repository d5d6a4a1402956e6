// Package config provides centralized configuration management for the
// lead-time pipeline and its HTTP surface.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LEADTIME_<SECTION>_<FIELD>:
//
//	LEADTIME_SERVER_PORT=8080
//	LEADTIME_LOGGING_LEVEL=debug
//	LEADTIME_PIPELINE_BRANDS=PAPAIZ,LA FONTE,SILVANA CD SP
//	LEADTIME_PIPELINE_CHANNEL_RULES=WEBSHOP=WEBSHOP,HOME CENTER=HOME_CENTER
//	LEADTIME_PIPELINE_DATE_LAYOUTS=2006-01-02,02/01/2006
//
// LEADTIME_CONFIG_FILE points at a YAML file; without it ./leadtime.yaml and
// ./configs/leadtime.yaml are tried.
//
// # Pipeline Policy
//
// The brand allow-list, channel keyword rules, required column set and date
// layouts are configuration rather than code so the same binary serves other
// brand portfolios.
package config
