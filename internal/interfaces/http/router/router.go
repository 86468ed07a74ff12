package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes onto a versioned API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under /api/<version>.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// WithMiddleware runs mw on every versioned route. Probes and docs are
// mounted on the engine directly and skip it.
func WithMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.middleware = append(r.middleware, mw...) }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registrar in registration order.
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}
	return api
}

// DomainGroup is the route table of one resource, built fluently and
// mounted later.
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

func (dg *DomainGroup) Use(mw ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, mw...)
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, path, handlers)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) add(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: path, handlers: handlers})
	return dg
}

func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}
