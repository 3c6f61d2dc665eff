package app

import (
	"go.uber.org/fx"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/internal/config"
	"github.com/slicenferqin/sql-zen/internal/database"
	"github.com/slicenferqin/sql-zen/internal/logger"
	"github.com/slicenferqin/sql-zen/internal/metadata"
	"github.com/slicenferqin/sql-zen/internal/observability"
	"github.com/slicenferqin/sql-zen/internal/sink"
)

// Offline provides everything that works without a database connection:
// configuration, logging, the shared catalog, and the metadata writer.
var Offline = fx.Options(
	config.Module,
	logger.Module,
	catalog.Module,
	metadata.Module,
)

// Core adds the database-backed modules used by seeding and provisioning.
var Core = fx.Options(
	Offline,
	observability.Module,
	database.Module,
	sink.Module,
)
