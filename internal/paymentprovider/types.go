package paymentprovider

// PaymentStatusPaid статус оплаченной сессии
const PaymentStatusPaid = "paid"

// EventCheckoutCompleted событие успешного завершения оформления заказа
const EventCheckoutCompleted = "checkout.session.completed"

// CheckoutSession сессия оформления заказа, поля, которые нам нужны
type CheckoutSession struct {
	ID              string           `json:"id"`
	PaymentStatus   string           `json:"payment_status"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerDetails *CustomerDetails `json:"customer_details"`
}

// CustomerDetails данные покупателя
type CustomerDetails struct {
	Email string `json:"email"`
}

// Paid сообщает, подтверждена ли оплата.
func (s *CheckoutSession) Paid() bool {
	return s != nil && s.PaymentStatus == PaymentStatusPaid
}

// Email возвращает email покупателя: из customer_details, иначе customer_email.
func (s *CheckoutSession) Email() string {
	if s == nil {
		return ""
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}

// Event событие вебхука платежного процессора
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object *CheckoutSession `json:"object"`
	} `json:"data"`
}
