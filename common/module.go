package common

type Module string

const (
	ModuleEventRegistry Module = "eventregistry"
	ModuleTicketPayment Module = "ticketpayment"
)

func (m Module) String() string {
	return string(m)
}
