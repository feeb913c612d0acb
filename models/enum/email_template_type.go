package enum

// EmailTemplateType identifies which notification a template renders.
type EmailTemplateType string

const (
	EmailTemplateCartOrderStore      EmailTemplateType = "cart_order_store"
	EmailTemplateCartOrderCustomer   EmailTemplateType = "cart_order_customer"
	EmailTemplateCustomOrderStore    EmailTemplateType = "custom_order_store"
	EmailTemplateCustomOrderCustomer EmailTemplateType = "custom_order_customer"
)

func EmailTemplateTypes() []EmailTemplateType {
	return []EmailTemplateType{
		EmailTemplateCartOrderStore,
		EmailTemplateCartOrderCustomer,
		EmailTemplateCustomOrderStore,
		EmailTemplateCustomOrderCustomer,
	}
}

func (t EmailTemplateType) Valid() bool {
	for _, known := range EmailTemplateTypes() {
		if t == known {
			return true
		}
	}
	return false
}
