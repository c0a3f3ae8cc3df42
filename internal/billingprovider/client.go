// Package billingprovider реализует клиента HTTP API платёжного провайдера.
//
// Клиент — чистый слой трансляции: каждый метод пробрасывает параметры в API
// провайдера и возвращает его ответ без изменений. Ошибки провайдера
// передаются вызывающему как есть; повторных попыток и идемпотентных ключей
// здесь нет.
package billingprovider

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client — клиент API платёжного провайдера.
type Client struct {
	accountID  string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного провайдера.
func NewClient(apiURL, accountID, secretKey string) *Client {
	return &Client{
		accountID:  accountID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.accountID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// CreateCustomer создаёт покупателя у провайдера.
func (c *Client) CreateCustomer(reqParams CreateCustomerRequest) (*Customer, error) {
	req, err := c.newRequest("POST", "/customers", reqParams)
	if err != nil {
		return nil, err
	}
	var customer Customer
	if err := c.do(req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCheckoutSession создаёт сессию оплаты. Принимает один из двух
// вариантов запроса: новая подписка или апгрейд существующей.
func (c *Client) CreateCheckoutSession(reqParams CheckoutSessionRequest) (*CheckoutSession, error) {
	switch v := reqParams.(type) {
	case NewSubscriptionRequest:
		v.Mode = v.checkoutMode()
		reqParams = v
	case ExistingSubscriptionUpgradeRequest:
		v.Mode = v.checkoutMode()
		reqParams = v
	default:
		return nil, fmt.Errorf("unsupported checkout session request type %T", reqParams)
	}

	req, err := c.newRequest("POST", "/checkout/sessions", reqParams)
	if err != nil {
		return nil, err
	}
	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateBillingPortalSession создаёт сессию личного кабинета биллинга.
func (c *Client) CreateBillingPortalSession(customerID, returnURL string) (*PortalSession, error) {
	req, err := c.newRequest("POST", "/billing_portal/sessions", CreatePortalSessionRequest{
		CustomerID: customerID,
		ReturnURL:  returnURL,
	})
	if err != nil {
		return nil, err
	}
	var session PortalSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSubscriptionItem меняет тариф и количество позиции подписки.
func (c *Client) UpdateSubscriptionItem(itemID, priceID string, quantity int64) (*SubscriptionItem, error) {
	req, err := c.newRequest("POST", "/subscription_items/"+itemID, UpdateSubscriptionItemRequest{
		Price:    priceID,
		Quantity: quantity,
	})
	if err != nil {
		return nil, err
	}
	var item SubscriptionItem
	if err := c.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetSubscription возвращает подписку провайдера по её идентификатору.
func (c *Client) GetSubscription(subscriptionID string) (*Subscription, error) {
	req, err := c.newRequest("GET", "/subscriptions/"+subscriptionID, nil)
	if err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscriptionSchedule создаёт расписание из действующей подписки.
// Провайдер снимает слепок текущей фазы автоматически.
func (c *Client) CreateSubscriptionSchedule(subscriptionID string) (*Schedule, error) {
	req, err := c.newRequest("POST", "/subscription_schedules", CreateScheduleRequest{
		FromSubscription: subscriptionID,
	})
	if err != nil {
		return nil, err
	}
	var schedule Schedule
	if err := c.do(req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// UpdateSubscriptionSchedule заменяет список фаз расписания.
func (c *Client) UpdateSubscriptionSchedule(scheduleID string, phases []SchedulePhase) (*Schedule, error) {
	req, err := c.newRequest("POST", "/subscription_schedules/"+scheduleID, UpdateScheduleRequest{
		Phases: phases,
	})
	if err != nil {
		return nil, err
	}
	var schedule Schedule
	if err := c.do(req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ReleaseSubscriptionSchedule освобождает подписку от расписания,
// возвращая её к обычному биллингу.
func (c *Client) ReleaseSubscriptionSchedule(scheduleID string) (*Schedule, error) {
	req, err := c.newRequest("POST", "/subscription_schedules/"+scheduleID+"/release", nil)
	if err != nil {
		return nil, err
	}
	var schedule Schedule
	if err := c.do(req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// GetSubscriptionSchedule возвращает расписание по его идентификатору.
func (c *Client) GetSubscriptionSchedule(scheduleID string) (*Schedule, error) {
	req, err := c.newRequest("GET", "/subscription_schedules/"+scheduleID, nil)
	if err != nil {
		return nil, err
	}
	var schedule Schedule
	if err := c.do(req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}
