package rest

import (
	"net/http"
	"time"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/panels"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/pkg/errors"
)

// NewContainer returns the REST API with request logging
func NewContainer(report *panels.StartupReport) *restful.Container {
	wsContainer := restful.NewContainer()

	for _, service := range NewRestServices(report) {
		wsContainer.Add(service)
	}
	wsContainer.Filter(func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		now := time.Now()
		chain.ProcessFilter(req, resp)
		cache.GetLogger().WithField("module", "rest").Debugf("received api request: %s %s (%d, took %v)",
			req.Request.Method, req.Request.URL, resp.StatusCode(), time.Since(now))
	})

	return wsContainer
}

func NewRestServices(report *panels.StartupReport) []*restful.WebService {
	services := make([]*restful.WebService, 0)

	service := new(restful.WebService)
	service.
		Path("/status").
		Produces(restful.MIME_JSON)

	service.Route(service.GET("").To(GetStatus(report)))
	service.Route(service.GET("/{component}").To(GetComponent(report)))
	services = append(services, service)

	return services
}

// GetStatus serves the startup report, answering 503 until the bot is ready
func GetStatus(report *panels.StartupReport) restful.RouteFunction {
	return func(request *restful.Request, response *restful.Response) {
		status := newStatus(report, cache.HasSession(), time.Now())

		code := http.StatusOK
		if !status.Ready {
			code = http.StatusServiceUnavailable
		}
		response.WriteHeaderAndEntity(code, status)
	}
}

func GetComponent(report *panels.StartupReport) restful.RouteFunction {
	return func(request *restful.Request, response *restful.Response) {
		name := request.PathParameter("component")

		for _, component := range report.Components() {
			if component.Name == name {
				response.WriteEntity(component)
				return
			}
		}
		response.WriteError(http.StatusNotFound, errors.New("Component not found."))
	}
}
