package acceptance

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// OrderAcceptanceTestSuite drives the order dashboard the way the web client does
type OrderAcceptanceTestSuite struct {
	suite.Suite
	app *app

	customer  *http.Client
	courier   *http.Client
	courierID string
}

// SetupTest runs before each test
func (suite *OrderAcceptanceTestSuite) SetupTest() {
	t := suite.T()
	suite.app = startApp(t)

	suite.customer = suite.app.browser(t)
	suite.app.signUp(t, suite.customer, "customer@dropx.test", "customer")

	suite.courier = suite.app.browser(t)
	suite.courierID = suite.app.signUp(t, suite.courier, "courier@dropx.test", "courier")["id"].(string)
}

func (suite *OrderAcceptanceTestSuite) newOrder() map[string]interface{} {
	t := suite.T()

	resp, raw := suite.app.call(t, suite.customer, http.MethodGet, "/api/v1/couriers", nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	couriers := jsonBody(t, raw)["data"].([]interface{})
	suite.Require().Len(couriers, 1)
	suite.Equal(suite.courierID, couriers[0].(map[string]interface{})["id"])

	resp, raw = suite.app.call(t, suite.customer, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"address":    "Main St 1",
		"target":     "J. Doe",
		"phone":      "555-0100",
		"date":       "2030-05-01",
		"time":       "14:30",
		"price":      "25",
		"courier_id": suite.courierID,
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))
	return jsonData(t, raw)
}

// TestCreateOrder checks that the creator becomes the author
func (suite *OrderAcceptanceTestSuite) TestCreateOrder() {
	t := suite.T()
	order := suite.newOrder()

	resp, raw := suite.app.call(t, suite.customer, http.MethodGet, "/api/v1/users/me", nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	me := jsonData(t, raw)

	suite.Equal("Main St 1", order["address"])
	suite.Equal("J. Doe", order["target"])
	suite.Equal("555-0100", order["phone"])
	suite.Equal("25", order["price"])
	suite.Equal("2030-05-01T14:30:00Z", order["scheduled_at"])
	suite.Equal("pending", order["status"])
	suite.Equal(me["id"], order["author_id"])
}

// TestCourierEditor checks that the courier editor has no draft option and locks the other fields
func (suite *OrderAcceptanceTestSuite) TestCourierEditor() {
	t := suite.T()
	order := suite.newOrder()

	resp, raw := suite.app.call(t, suite.courier, http.MethodGet, "/api/v1/orders/"+order["id"].(string), nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))
	editor := jsonBody(t, raw)["editor"].(map[string]interface{})
	suite.Equal([]interface{}{"pending", "processing", "completed"}, editor["statuses"])
	suite.Contains(editor["read_only_fields"], "address")

	resp, raw = suite.app.call(t, suite.customer, http.MethodGet, "/api/v1/orders/"+order["id"].(string), nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	editor = jsonBody(t, raw)["editor"].(map[string]interface{})
	suite.Contains(editor["statuses"], "draft")
	suite.Empty(editor["read_only_fields"])
}

// TestDeleteNeedsConfirmation checks the confirmation step before an order goes away
func (suite *OrderAcceptanceTestSuite) TestDeleteNeedsConfirmation() {
	t := suite.T()
	id := suite.newOrder()["id"].(string)

	resp, raw := suite.app.call(t, suite.customer, http.MethodDelete, "/api/v1/orders/"+id, nil)
	suite.Equal(http.StatusPreconditionRequired, resp.StatusCode)
	suite.Equal("CONFIRMATION_REQUIRED", jsonErrorCode(t, raw))

	req, err := http.NewRequest(http.MethodDelete, suite.app.server.URL+"/api/v1/orders/"+id, nil)
	suite.Require().NoError(err)
	req.Header.Set("X-Confirm-Delete", "true")
	resp, raw = suite.app.send(t, suite.customer, req)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = suite.app.call(t, suite.customer, http.MethodGet, "/api/v1/orders", nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Empty(jsonBody(t, raw)["data"])
}

// TestOrderAcceptanceTestSuite runs the acceptance test suite
func TestOrderAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
