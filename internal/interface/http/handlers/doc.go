// Package handlers contains HTTP building blocks shared by the API server.
//
// # Health Checks
//
// Required checks take the service out of readiness when they fail;
// optional ones only mark it degraded:
//
//	checker := handlers.NewCompositeHealthChecker("0.1.0")
//	checker.AddCheck("database", handlers.PingCheck(conn))
//	checker.AddOptionalCheck("cache", handlers.PingCheck(cache))
//
//	status := checker.Check(ctx)
//	if status.Status != handlers.StatusOK {
//	    log.Warn("health check failed", "message", status.Message)
//	}
//
// # Middleware
//
//	handler := handlers.ChainHandler(
//	    mux,
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.RequestSizeLimitMiddleware(1<<20),
//	)
package handlers
