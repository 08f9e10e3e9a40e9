package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamrokrishi/advisory-service/internal/errs"
	"github.com/hamrokrishi/advisory-service/internal/model"
	"github.com/hamrokrishi/advisory-service/internal/service"
)

type fakeTicketService struct {
	createFn     func(ctx context.Context, in service.CreateTicketInput) (*model.Ticket, error)
	markViewedFn func(ctx context.Context, id uint64, viewer model.SenderType) (*model.Ticket, error)
	listFn       func(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.Ticket, int64, error)
}

func (f *fakeTicketService) Create(ctx context.Context, in service.CreateTicketInput) (*model.Ticket, error) {
	return f.createFn(ctx, in)
}

func (f *fakeTicketService) GetByID(context.Context, uint64) (*model.Ticket, error) {
	return nil, errs.ErrTicketNotFound
}

func (f *fakeTicketService) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.Ticket, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeTicketService) MarkViewed(ctx context.Context, id uint64, viewer model.SenderType) (*model.Ticket, error) {
	return f.markViewedFn(ctx, id, viewer)
}

func (f *fakeTicketService) Close(context.Context, uint64) (*model.Ticket, error) {
	return nil, errs.ErrTicketNotFound
}

func newTicketRouter(svc service.TicketServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTicketHandler(svc, nil)
	r.POST("/api/v1/tickets", h.Create)
	r.GET("/api/v1/tickets", h.List)
	r.POST("/api/v1/tickets/:id/view", h.MarkViewed)
	r.POST("/api/v1/tickets/:id/close", h.Close)
	return r
}

func TestCreateTicketHappyPath(t *testing.T) {
	svc := &fakeTicketService{
		createFn: func(_ context.Context, in service.CreateTicketInput) (*model.Ticket, error) {
			assert.Equal(t, "farmer-1", in.FarmerID)
			assert.Len(t, in.ImageURLs, 2)
			return &model.Ticket{
				ID:           5,
				FarmerID:     in.FarmerID,
				OfficeID:     in.OfficeID,
				TechnicianID: 9,
				Status:       model.TicketStatusOpen,
			}, nil
		},
	}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(gin.H{
		"farmer_id":           "farmer-1",
		"office_id":           3,
		"crop_name":           "Rice",
		"problem_title":       "Yellow leaves",
		"problem_description": "Started last week",
		"image_urls":          []string{"https://blob.example/a.jpg", "https://blob.example/b.jpg"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got model.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint64(9), got.TechnicianID)
}

func TestCreateTicketNoTechnicianIsDistinguishable(t *testing.T) {
	svc := &fakeTicketService{
		createFn: func(context.Context, service.CreateTicketInput) (*model.Ticket, error) {
			return nil, errs.ErrNoTechnician
		},
	}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(gin.H{
		"farmer_id":           "farmer-1",
		"office_id":           3,
		"crop_name":           "Rice",
		"problem_title":       "Yellow leaves",
		"problem_description": "Started last week",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_technician", resp["error"])
}

func TestCreateTicketMissingFields(t *testing.T) {
	r := newTicketRouter(&fakeTicketService{})

	body, _ := json.Marshal(gin.H{"farmer_id": "farmer-1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkViewedRejectsUnknownRole(t *testing.T) {
	svc := &fakeTicketService{
		markViewedFn: func(_ context.Context, _ uint64, viewer model.SenderType) (*model.Ticket, error) {
			t.Fatalf("service should not be called, got role %q", viewer)
			return nil, nil
		},
	}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(gin.H{"viewer": "admin"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/5/view", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkViewedPassesRoleThrough(t *testing.T) {
	var gotRole model.SenderType
	svc := &fakeTicketService{
		markViewedFn: func(_ context.Context, id uint64, viewer model.SenderType) (*model.Ticket, error) {
			gotRole = viewer
			return &model.Ticket{ID: id, Status: model.TicketStatusInProgress}, nil
		},
	}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(gin.H{"viewer": "technician"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/5/view", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.SenderTechnician, gotRole)
}

func TestListBuildsFilterFromQuery(t *testing.T) {
	var gotFilter map[string]interface{}
	var gotLimit, gotOffset int
	svc := &fakeTicketService{
		listFn: func(_ context.Context, filter map[string]interface{}, limit, offset int) ([]model.Ticket, int64, error) {
			gotFilter, gotLimit, gotOffset = filter, limit, offset
			return []model.Ticket{}, 0, nil
		},
	}
	r := newTicketRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets?technician_id=4&status=open&limit=20&offset=40", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", gotFilter["technician_id = ?"])
	assert.Equal(t, "open", gotFilter["status = ?"])
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 40, gotOffset)
}

func TestCloseUnknownTicket(t *testing.T) {
	r := newTicketRouter(&fakeTicketService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/99/close", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
