// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	requestutil "github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/request"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/respond"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/validate"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/convert"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pointer"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/"+NamePatronTitleAgg, handler.titleAgg)
	router.Get("/"+NameTopTitles, handler.topTitles)
	router.Get("/"+NameSIPActivity, handler.sipActivity)
	router.Get("/"+NameClassIssues, handler.classIssues)
	router.Get("/"+NamePatronsByClass, handler.patronsByClass)
	router.Get("/"+NamePatronsByDepartment, handler.patronsByDepartment)
	router.Get("/"+NameDarajaBuckets, handler.darajaBuckets)

	router.Get("/"+NameLibrarySummary, handler.librarySummary)
	router.Get("/"+NameDepartmentBreakdown, handler.departmentBreakdown)
	router.Get("/"+NameMonthlyTrend, handler.monthlyTrend)
	router.Get("/"+NameTodayActivity, handler.todayActivity)

	// Value lists for the report parameter forms.
	router.Get("/classes", handler.listClasses)
	router.Get("/departments", handler.listDepartments)

	// CSV export of any tabular report, same query parameters as the
	// JSON endpoint.
	router.Get("/{name}/export", handler.export)
}

// # Parameter parsing
//
// Malformed dates are rejected here with the same VALIDATION_ERROR the
// service layer uses, so clients see one error shape regardless of where
// the input fell over.

func titleAggParams(request *http.Request) (TitleAggParams, error) {
	values := request.URL.Query()

	start, ok := query.Date(values.Get("start"))
	if !ok {
		return TitleAggParams{}, validate.RequiredError(FieldStart, "Must be a YYYY-MM-DD date")
	}

	end, ok := query.Date(values.Get("end"))
	if !ok {
		return TitleAggParams{}, validate.RequiredError(FieldEnd, "Must be a YYYY-MM-DD date")
	}

	return TitleAggParams{
		Start:           start,
		End:             end,
		ExcludeCategory: values.Get("exclude_category"),
	}, nil
}

func topTitlesParams(request *http.Request) TopTitlesParams {
	values := request.URL.Query()

	params := TopTitlesParams{
		Limit: convert.ToInt(values.Get("limit")),
	}
	if lang := values.Get("lang"); lang != "" {
		params.Lang = pointer.To(lang)
	}

	return params
}

// # Handlers

func (handler *Handler) titleAgg(writer http.ResponseWriter, request *http.Request) {
	params, err := titleAggParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rows, err := handler.service.TitleAgg(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) topTitles(writer http.ResponseWriter, request *http.Request) {
	rows, err := handler.service.TopTitles(request.Context(), topTitlesParams(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) sipActivity(writer http.ResponseWriter, request *http.Request) {
	days := convert.ToInt(request.URL.Query().Get("days"))

	rows, err := handler.service.SIPActivity(request.Context(), days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) classIssues(writer http.ResponseWriter, request *http.Request) {
	rows, err := handler.service.ClassIssues(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) patronsByClass(writer http.ResponseWriter, request *http.Request) {
	rows, err := handler.service.PatronsByClass(request.Context(), request.URL.Query().Get("class"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) patronsByDepartment(writer http.ResponseWriter, request *http.Request) {
	rows, err := handler.service.PatronsByDepartment(request.Context(), request.URL.Query().Get("department"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) darajaBuckets(writer http.ResponseWriter, request *http.Request) {
	rows, err := handler.service.DarajaBuckets(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) librarySummary(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.service.LibrarySummary(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}

func (handler *Handler) departmentBreakdown(writer http.ResponseWriter, request *http.Request) {
	rows, err := handler.service.DepartmentBreakdown(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) monthlyTrend(writer http.ResponseWriter, request *http.Request) {
	months := convert.ToInt(request.URL.Query().Get("months"))

	rows, err := handler.service.MonthlyTrend(request.Context(), months)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

func (handler *Handler) todayActivity(writer http.ResponseWriter, request *http.Request) {
	activity, err := handler.service.TodayActivity(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, activity)
}

func (handler *Handler) listClasses(writer http.ResponseWriter, request *http.Request) {
	values, err := handler.service.ListClasses(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, values)
}

func (handler *Handler) listDepartments(writer http.ResponseWriter, request *http.Request) {
	values, err := handler.service.ListDepartments(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, values)
}

// export runs the named report with the same query parameters as its JSON
// endpoint and streams the result as a CSV attachment.
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "name")

	document, err := handler.buildExport(request, name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Headers are already sent once writeCSV starts, so a write error here
	// is almost always a client disconnect and cannot be reported back.
	_ = writeCSV(writer, document)
}

func (handler *Handler) buildExport(request *http.Request, name string) (*csvDocument, error) {
	ctx := request.Context()

	switch name {
	case NamePatronTitleAgg:
		params, err := titleAggParams(request)
		if err != nil {
			return nil, err
		}
		rows, err := handler.service.TitleAgg(ctx, params)
		if err != nil {
			return nil, err
		}
		return titleAggCSV(rows), nil

	case NameTopTitles:
		rows, err := handler.service.TopTitles(ctx, topTitlesParams(request))
		if err != nil {
			return nil, err
		}
		return topTitlesCSV(rows), nil

	case NameSIPActivity:
		rows, err := handler.service.SIPActivity(ctx, convert.ToInt(request.URL.Query().Get("days")))
		if err != nil {
			return nil, err
		}
		return sipActivityCSV(rows), nil

	case NameClassIssues:
		rows, err := handler.service.ClassIssues(ctx)
		if err != nil {
			return nil, err
		}
		return classIssuesCSV(rows), nil

	case NamePatronsByClass:
		class := request.URL.Query().Get("class")
		rows, err := handler.service.PatronsByClass(ctx, class)
		if err != nil {
			return nil, err
		}
		return patronActivityCSV(NamePatronsByClass, class, rows), nil

	case NamePatronsByDepartment:
		department := request.URL.Query().Get("department")
		rows, err := handler.service.PatronsByDepartment(ctx, department)
		if err != nil {
			return nil, err
		}
		return patronActivityCSV(NamePatronsByDepartment, department, rows), nil

	case NameDarajaBuckets:
		rows, err := handler.service.DarajaBuckets(ctx)
		if err != nil {
			return nil, err
		}
		return darajaBucketsCSV(rows), nil

	case NameDepartmentBreakdown:
		rows, err := handler.service.DepartmentBreakdown(ctx)
		if err != nil {
			return nil, err
		}
		return departmentBreakdownCSV(rows), nil

	case NameMonthlyTrend:
		rows, err := handler.service.MonthlyTrend(ctx, convert.ToInt(request.URL.Query().Get("months")))
		if err != nil {
			return nil, err
		}
		return monthlyTrendCSV(rows), nil

	default:
		return nil, apperr.NotFound("Report")
	}
}
