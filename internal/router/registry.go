package router

import "github.com/gin-gonic/gin"

// Registry collects modules and mounts them under a common base path.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts the API at basePath; an empty basePath serves from "/".
func NewRegistry(engine *gin.Engine, basePath string) *Registry {
	if basePath == "" {
		basePath = "/"
	}
	return &Registry{Engine: engine, API: engine.Group(basePath)}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
