package backend

import (
	"net/http"
	"sort"

	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	APIName    = "API de Filtros de Imagem"
	APIVersion = "1.0.0"
	DocsPath   = "/docs"
)

type APIService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

// Capabilities is the body of GET /
type Capabilities struct {
	Mensagem              string   `json:"mensagem"`
	Versao                string   `json:"versao"`
	Documentacao          string   `json:"documentacao"`
	FiltrosDisponiveis    []string `json:"filtros_disponiveis"`
	Niveis                []int    `json:"niveis"`
	EndpointsCustomizados bool     `json:"endpoints_customizados"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
		config:      config,
	}
}

// SetRoutes registers the info routes and, for every catalog entry, its
// preset and custom routes
func (service *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/", service.rootHandler)
	e.GET("/probe", service.probeHandler)
	e.GET(DocsPath, service.docsHandler)

	for _, descriptor := range service.coreService.Registry().Descriptors() {
		group := e.Group("/filtros/" + descriptor.Name)
		if descriptor.SupportsCustom() {
			group.POST("/customizado", service.customHandler(descriptor, false))
			group.POST("/customizado/download", service.customHandler(descriptor, true))
		}
		group.POST("/:nivel", service.presetHandler(descriptor, false))
		group.POST("/:nivel/download", service.presetHandler(descriptor, true))
	}
}

func (service *APIService) rootHandler(ctx echo.Context) error {
	custom := false
	for _, descriptor := range service.coreService.Registry().Descriptors() {
		custom = custom || descriptor.SupportsCustom()
	}
	return ctx.JSON(http.StatusOK, Capabilities{
		Mensagem:              APIName,
		Versao:                APIVersion,
		Documentacao:          DocsPath,
		FiltrosDisponiveis:    service.coreService.Registry().Names(),
		Niveis:                filterstructure.Levels,
		EndpointsCustomizados: custom,
	})
}

func (service *APIService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "API Service is running")
}

// docsHandler lists every registered route sorted by path
func (service *APIService) docsHandler(ctx echo.Context) error {
	routes := ctx.Echo().Routes()
	out := make([]echo.Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, echo.Route{Method: r.Method, Path: r.Path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	return ctx.JSON(http.StatusOK, map[string]any{
		"titulo": APIName,
		"versao": APIVersion,
		"rotas":  out,
	})
}
