package models

// AcquireStatus is the acquiring state of a card payment as reported by the
// card acquirer.
type AcquireStatus string

const (
	AcquireReady           AcquireStatus = "READY"
	AcquireRequested       AcquireStatus = "REQUESTED"
	AcquireCompleted       AcquireStatus = "COMPLETED"
	AcquireCancelRequested AcquireStatus = "CANCEL_REQUESTED"
	AcquireCancelled       AcquireStatus = "CANCELED"
)

// TransactionDetail is a payment-method-specific extension record keyed by
// payment key. Each method variant has its own table and repository.
type TransactionDetail interface {
	DetailMethod() PaymentMethod
	DetailKey() string
}

// CardPayment is the card variant of TransactionDetail.
type CardPayment struct {
	PaymentKey     string        `gorm:"column:payment_key;primaryKey" json:"payment_key"`
	CardNumber     string        `gorm:"column:card_number" json:"card_number"`
	ApproveNo      string        `gorm:"column:approve_no" json:"approve_no"`
	AcquireStatus  AcquireStatus `gorm:"column:acquire_status;type:varchar(24)" json:"acquire_status"`
	IssuerCode     string        `gorm:"column:issuer_code" json:"issuer_code"`
	AcquirerCode   string        `gorm:"column:acquirer_code" json:"acquirer_code"`
	AcquirerStatus string        `gorm:"column:acquirer_status" json:"acquirer_status"`
}

func (CardPayment) TableName() string { return "card_payment" }

func (c *CardPayment) DetailMethod() PaymentMethod { return MethodCard }

func (c *CardPayment) DetailKey() string { return c.PaymentKey }
