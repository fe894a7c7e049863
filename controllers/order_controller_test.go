package controllers

import (
	"net/http"
	"testing"

	"github.com/dropx/dropx-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func orderRouter(user *models.User) *gin.Engine {
	router := setupTestRouter()
	auth := mockSessionMiddleware(user)
	router.POST("/orders", auth, CreateOrder)
	router.GET("/orders", auth, ListOrders)
	router.GET("/orders/:id", auth, GetOrder)
	router.PUT("/orders/:id", auth, UpdateOrder)
	router.DELETE("/orders/:id", auth, DeleteOrder)
	return router
}

func orderBody(courierID string) map[string]interface{} {
	return map[string]interface{}{
		"address":      "Main St 1",
		"target":       "J. Doe",
		"phone":        "555-0100",
		"scheduled_at": "2030-05-01T14:30:00Z",
		"price":        "25",
		"courier_id":   courierID,
	}
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "customer@example.com", models.RoleCustomer)
	courier := createUser(t, db, "courier@example.com", models.RoleCourier)

	tests := []struct {
		name           string
		user           *models.User
		mutate         func(body map[string]interface{})
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "customer creates order",
			user:           customer,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "Main St 1", data["address"])
				assert.Equal(t, "J. Doe", data["target"])
				assert.Equal(t, "555-0100", data["phone"])
				assert.Equal(t, "25", data["price"])
				assert.Equal(t, "pending", data["status"])
				assert.Equal(t, "2030-05-01T14:30:00Z", data["scheduled_at"])
				assert.Equal(t, customer.ID, data["author_id"])
				assert.Equal(t, courier.ID, data["courier_id"])

				author := data["author"].(map[string]interface{})
				assert.Equal(t, customer.Email, author["email"])
				courierData := data["courier"].(map[string]interface{})
				assert.Equal(t, courier.Email, courierData["email"])
			},
		},
		{
			name: "split date and time are combined in UTC",
			user: customer,
			mutate: func(body map[string]interface{}) {
				delete(body, "scheduled_at")
				body["date"] = "2030-06-02"
				body["time"] = "09:15"
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "2030-06-02T09:15:00Z", data["scheduled_at"])
			},
		},
		{
			name: "order may start as draft",
			user: customer,
			mutate: func(body map[string]interface{}) {
				body["status"] = "draft"
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "draft", data["status"])
			},
		},
		{
			name: "author in body is ignored",
			user: customer,
			mutate: func(body map[string]interface{}) {
				body["author_id"] = courier.ID
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, customer.ID, data["author_id"])
			},
		},
		{
			name:           "courier cannot create orders",
			user:           courier,
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:           "missing address",
			user:           customer,
			mutate:         func(body map[string]interface{}) { delete(body, "address") },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "address too short",
			user:           customer,
			mutate:         func(body map[string]interface{}) { body["address"] = "M" },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "negative price",
			user:           customer,
			mutate:         func(body map[string]interface{}) { body["price"] = "-5" },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "missing schedule",
			user:           customer,
			mutate:         func(body map[string]interface{}) { delete(body, "scheduled_at") },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "courier must be a courier",
			user:           customer,
			mutate:         func(body map[string]interface{}) { body["courier_id"] = customer.ID },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_COURIER",
		},
		{
			name:           "unknown status",
			user:           customer,
			mutate:         func(body map[string]interface{}) { body["status"] = "lost" },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_STATUS",
		},
		{
			name:           "new orders cannot start completed",
			user:           customer,
			mutate:         func(body map[string]interface{}) { body["status"] = "completed" },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_STATUS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := orderBody(courier.ID)
			if tt.mutate != nil {
				tt.mutate(body)
			}

			w := performJSON(orderRouter(tt.user), http.MethodPost, "/orders", body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}
			response := decode(t, w)
			assert.True(t, response["success"].(bool))
			if tt.checkResponse != nil {
				tt.checkResponse(t, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestListOrders_Scope(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := createUser(t, db, "bob@example.com", models.RoleCustomer)
	courierA := createUser(t, db, "courier-a@example.com", models.RoleCourier)
	courierB := createUser(t, db, "courier-b@example.com", models.RoleCourier)

	createOrder(t, db, alice, courierA, "Main St 1")
	createOrder(t, db, alice, courierB, "Main St 2")
	createOrder(t, db, bob, courierA, "Side St 3")

	tests := []struct {
		name      string
		user      *models.User
		wantCount int
	}{
		{name: "customer sees own orders", user: alice, wantCount: 2},
		{name: "other customer sees own orders", user: bob, wantCount: 1},
		{name: "courier sees assigned orders", user: courierA, wantCount: 2},
		{name: "second courier", user: courierB, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(orderRouter(tt.user), http.MethodGet, "/orders", nil)
			require.Equal(t, http.StatusOK, w.Code)

			response := decode(t, w)
			data := response["data"].([]interface{})
			assert.Len(t, data, tt.wantCount)
			meta := response["meta"].(map[string]interface{})
			assert.Equal(t, float64(tt.wantCount), meta["total"])
		})
	}
}

func TestListOrders_FilterSortAndPaginate(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "customer@example.com", models.RoleCustomer)
	courier := createUser(t, db, "courier@example.com", models.RoleCourier)

	for _, address := range []string{"Main St 1", "main st 2", "Oak Ave 3", "Main St 4", "Pine Rd 5"} {
		createOrder(t, db, customer, courier, address)
	}
	prices := map[string]string{"Main St 1": "100", "main st 2": "9.5", "Main St 4": "25"}
	for address, price := range prices {
		require.NoError(t, db.Model(&models.Order{}).Where("address = ?", address).Update("price", price).Error)
	}
	require.NoError(t, db.Model(&models.Order{}).Where("address = ?", "Oak Ave 3").Update("status", models.StatusCompleted).Error)

	router := orderRouter(customer)

	t.Run("address filter is case-insensitive", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/orders?address=MAIN", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["data"], 3)
	})

	t.Run("status filter accepts legacy delivered", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/orders?status=delivered", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "Oak Ave 3", data[0].(map[string]interface{})["address"])
	})

	t.Run("invalid status filter", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/orders?status=shipped", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATUS", errorCode(t, w))
	})

	t.Run("price sorts numerically", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/orders?address=main&sort=price&order=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].([]interface{})
		require.Len(t, data, 3)
		assert.Equal(t, "9.5", data[0].(map[string]interface{})["price"])
		assert.Equal(t, "25", data[1].(map[string]interface{})["price"])
		assert.Equal(t, "100", data[2].(map[string]interface{})["price"])
	})

	t.Run("invalid order direction", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/orders?sort=price&order=sideways", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	pages := []struct {
		query     string
		wantPage  float64
		wantSize  float64
		wantCount int
		wantPages float64
	}{
		{query: "", wantPage: 1, wantSize: 20, wantCount: 5, wantPages: 1},
		{query: "?page=1&page_size=2", wantPage: 1, wantSize: 2, wantCount: 2, wantPages: 3},
		{query: "?page=3&page_size=2", wantPage: 3, wantSize: 2, wantCount: 1, wantPages: 3},
		{query: "?page_size=500", wantPage: 1, wantSize: 100, wantCount: 5, wantPages: 1},
		{query: "?page=0", wantPage: 1, wantSize: 20, wantCount: 5, wantPages: 1},
	}
	for _, p := range pages {
		t.Run("pagination "+p.query, func(t *testing.T) {
			w := performJSON(router, http.MethodGet, "/orders"+p.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			response := decode(t, w)
			meta := response["meta"].(map[string]interface{})
			assert.Equal(t, p.wantPage, meta["page"])
			assert.Equal(t, p.wantSize, meta["page_size"])
			assert.Equal(t, float64(5), meta["total"])
			assert.Equal(t, p.wantPages, meta["total_pages"])
			assert.Len(t, response["data"], p.wantCount)
		})
	}
}

func TestGetOrder(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "customer@example.com", models.RoleCustomer)
	other := createUser(t, db, "other@example.com", models.RoleCustomer)
	courier := createUser(t, db, "courier@example.com", models.RoleCourier)
	otherCourier := createUser(t, db, "courier2@example.com", models.RoleCourier)
	order := createOrder(t, db, customer, courier, "Main St 1")

	t.Run("author gets full editor", func(t *testing.T) {
		w := performJSON(orderRouter(customer), http.MethodGet, "/orders/"+order.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode(t, w)
		assert.Equal(t, order.ID, response["data"].(map[string]interface{})["id"])
		editor := response["editor"].(map[string]interface{})
		assert.Len(t, editor["editable_fields"], 7)
		assert.Empty(t, editor["read_only_fields"])
		assert.Equal(t, []interface{}{"draft", "pending", "processing", "completed"}, editor["statuses"])
	})

	t.Run("assigned courier gets status-only editor without draft", func(t *testing.T) {
		w := performJSON(orderRouter(courier), http.MethodGet, "/orders/"+order.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		editor := decode(t, w)["editor"].(map[string]interface{})
		assert.Equal(t, []interface{}{"status"}, editor["editable_fields"])
		assert.Contains(t, editor["read_only_fields"], "address")
		assert.NotContains(t, editor["statuses"], "draft")
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		w := performJSON(orderRouter(other), http.MethodGet, "/orders/"+order.ID, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})

	t.Run("unassigned courier is forbidden", func(t *testing.T) {
		w := performJSON(orderRouter(otherCourier), http.MethodGet, "/orders/"+order.ID, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := performJSON(orderRouter(customer), http.MethodGet, "/orders/does-not-exist", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, w))
	})
}

func editBody(order *models.Order, status string) map[string]interface{} {
	return map[string]interface{}{
		"address":      order.Address,
		"target":       order.Target,
		"phone":        order.Phone,
		"scheduled_at": order.ScheduledAt.Format("2006-01-02T15:04:05Z07:00"),
		"price":        order.Price,
		"courier_id":   *order.CourierID,
		"status":       status,
	}
}

func reloadOrder(t *testing.T, db *gorm.DB, id string) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", id).Error)
	return order
}

func TestUpdateOrder_Courier(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "customer@example.com", models.RoleCustomer)
	courier := createUser(t, db, "courier@example.com", models.RoleCourier)
	order := createOrder(t, db, customer, courier, "Main St 1")
	router := orderRouter(courier)

	t.Run("status change is saved", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/orders/"+order.ID, editBody(order, "processing"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "processing", decode(t, w)["data"].(map[string]interface{})["status"])

		stored := reloadOrder(t, db, order.ID)
		assert.Equal(t, models.StatusProcessing, stored.Status)
		assert.Equal(t, "Main St 1", stored.Address)
		assert.Equal(t, customer.ID, stored.AuthorID)
	})

	t.Run("equivalent price text is not a change", func(t *testing.T) {
		body := editBody(order, "processing")
		body["price"] = "25.00"
		w := performJSON(router, http.MethodPut, "/orders/"+order.ID, body)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("read-only fields are rejected", func(t *testing.T) {
		body := editBody(order, "completed")
		body["address"] = "Elsewhere 9"
		body["price"] = "30"

		w := performJSON(router, http.MethodPut, "/orders/"+order.ID, body)
		require.Equal(t, http.StatusForbidden, w.Code)
		response := decode(t, w)
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "READ_ONLY_FIELD", errObj["code"])
		assert.ElementsMatch(t, []interface{}{"address", "price"}, errObj["details"])

		stored := reloadOrder(t, db, order.ID)
		assert.Equal(t, "Main St 1", stored.Address)
		assert.Equal(t, models.StatusProcessing, stored.Status, "nothing is written on rejection")
	})

	t.Run("courier cannot choose draft", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/orders/"+order.ID, editBody(order, "draft"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATUS", errorCode(t, w))
	})

	t.Run("legacy delivered becomes completed", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/orders/"+order.ID, editBody(order, "delivered"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.StatusCompleted, reloadOrder(t, db, order.ID).Status)
	})
}

func TestUpdateOrder_Customer(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "customer@example.com", models.RoleCustomer)
	other := createUser(t, db, "other@example.com", models.RoleCustomer)
	courier := createUser(t, db, "courier@example.com", models.RoleCourier)
	newCourier := createUser(t, db, "courier2@example.com", models.RoleCourier)
	order := createOrder(t, db, customer, courier, "Main St 1")

	t.Run("author edits every field", func(t *testing.T) {
		body := map[string]interface{}{
			"address":    "Oak Ave 7",
			"target":     "R. Roe",
			"phone":      "555-0199",
			"date":       "2030-07-04",
			"time":       "18:00",
			"price":      "40.50",
			"courier_id": newCourier.ID,
			"status":     "draft",
			"author_id":  other.ID,
		}
		w := performJSON(orderRouter(customer), http.MethodPut, "/orders/"+order.ID, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		stored := reloadOrder(t, db, order.ID)
		assert.Equal(t, "Oak Ave 7", stored.Address)
		assert.Equal(t, "R. Roe", stored.Target)
		assert.Equal(t, "555-0199", stored.Phone)
		assert.Equal(t, "40.5", stored.Price)
		assert.Equal(t, newCourier.ID, *stored.CourierID)
		assert.Equal(t, models.StatusDraft, stored.Status)
		assert.Equal(t, "2030-07-04T18:00:00Z", stored.ScheduledAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
		assert.Equal(t, customer.ID, stored.AuthorID, "author never changes")
	})

	t.Run("reassigning to a customer is rejected", func(t *testing.T) {
		current := reloadOrder(t, db, order.ID)
		body := editBody(&current, "pending")
		body["courier_id"] = other.ID
		w := performJSON(orderRouter(customer), http.MethodPut, "/orders/"+order.ID, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_COURIER", errorCode(t, w))
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		current := reloadOrder(t, db, order.ID)
		w := performJSON(orderRouter(other), http.MethodPut, "/orders/"+order.ID, editBody(&current, "pending"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		current := reloadOrder(t, db, order.ID)
		body := editBody(&current, "")
		w := performJSON(orderRouter(customer), http.MethodPut, "/orders/"+order.ID, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})
}

func TestDeleteOrder(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "customer@example.com", models.RoleCustomer)
	courier := createUser(t, db, "courier@example.com", models.RoleCourier)
	order := createOrder(t, db, customer, courier, "Main St 1")
	router := orderRouter(customer)

	t.Run("unconfirmed delete leaves the order", func(t *testing.T) {
		w := performJSON(router, http.MethodDelete, "/orders/"+order.ID, nil)
		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
		assert.Equal(t, "CONFIRMATION_REQUIRED", errorCode(t, w))

		list := performJSON(router, http.MethodGet, "/orders", nil)
		assert.Len(t, decode(t, list)["data"], 1)
	})

	t.Run("courier cannot delete", func(t *testing.T) {
		w := performJSON(orderRouter(courier), http.MethodDelete, "/orders/"+order.ID+"?confirm=true", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("confirmed by header", func(t *testing.T) {
		second := createOrder(t, db, customer, courier, "Main St 2")
		req := performJSONWithHeader(router, http.MethodDelete, "/orders/"+second.ID, "X-Confirm-Delete", "true")
		assert.Equal(t, http.StatusOK, req.Code)
	})

	t.Run("confirmed by query", func(t *testing.T) {
		w := performJSON(router, http.MethodDelete, "/orders/"+order.ID+"?confirm=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		list := performJSON(router, http.MethodGet, "/orders", nil)
		assert.Empty(t, decode(t, list)["data"])

		w = performJSON(router, http.MethodGet, "/orders/"+order.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
