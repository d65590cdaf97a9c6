package trade

import "go.uber.org/fx"

// Module exposes the trade service via Fx. The concrete *Service is provided
// for the reconciliation poller, which shares the state machine primitives;
// HTTP handlers see only the TradeManager interface.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) TradeManager { return s }),
)
