package router

import "go.uber.org/fx"

// Module provides the dashboard *gin.Engine.
var Module = fx.Provide(Setup)
