package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/rioporto/p2p/internal/app/api/server"
	"github.com/rioporto/p2p/internal/app/service/access"
	"github.com/rioporto/p2p/internal/app/service/audit"
	"github.com/rioporto/p2p/internal/app/service/notify"
	"github.com/rioporto/p2p/internal/app/service/reconcile"
	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/platform/db"
	"github.com/rioporto/p2p/internal/platform/pix"
	"github.com/rioporto/p2p/internal/platform/push"
	"github.com/rioporto/p2p/pkg/config"
	"github.com/rioporto/p2p/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	pix.Module,
	push.Module,
	server.Module,
	access.Module,
	audit.Module,
	notify.Module,
	trade.Module,
	reconcile.Module,
)
