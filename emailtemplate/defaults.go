package emailtemplate

import (
	"strings"

	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

const layout = `<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #D4A574 0%, #B8956A 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
      .content { background: #fff; padding: 30px; border: 1px solid #e0e0e0; }
      .info-block { background: #f9f9f9; padding: 15px; margin: 15px 0; border-radius: 5px; border-left: 4px solid #D4A574; }
      .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
      h1 { margin: 0; font-size: 24px; }
      h2 { color: #D4A574; font-size: 18px; margin-top: 0; }
      .label { font-weight: bold; color: #666; }
    </style>
  </head>
  <body>
    <div class="container">
{{body}}
    </div>
  </body>
</html>`

var defaults = map[enum.EmailTemplateType]models.EmailTemplate{
	enum.EmailTemplateCartOrderStore: {
		Subject: "Nova Encomenda ReBoho",
		HTMLContent: wrap(`      <div class="header"><h1>Nova Encomenda ReBoho</h1></div>
      <div class="content">
        <h2>Detalhes da Encomenda</h2>
        <div class="info-block">
          <p><span class="label">Cliente:</span> {{customer_name}}</p>
          <p><span class="label">Email:</span> {{customer_email}}</p>
        </div>
        <h2>Produtos</h2>
        <div class="info-block">{{details}}</div>
        <p><span class="label">Total:</span> {{total}}</p>
      </div>
      <div class="footer"><p>ReBoho Art - Email automatico do sistema</p></div>`),
	},
	enum.EmailTemplateCartOrderCustomer: {
		Subject: "Encomenda Recebida - ReBoho Art",
		HTMLContent: wrap(`      <div class="header"><h1>Obrigada pela tua encomenda!</h1></div>
      <div class="content">
        <p>Ola {{customer_name}},</p>
        <p>Recebemos a tua encomenda com sucesso!</p>
        <div class="info-block">{{details}}</div>
        <p>Iremos entrar em contacto contigo brevemente com informacoes de pagamento e envio.</p>
        <p>Com carinho,<br><strong>ReBoho Art</strong></p>
      </div>`),
	},
	enum.EmailTemplateCustomOrderStore: {
		Subject: "Novo Pedido de Orcamento - Peca Personalizada",
		HTMLContent: wrap(`      <div class="header"><h1>Novo Pedido de Orcamento</h1></div>
      <div class="content">
        <h2>Detalhes do Pedido de Orcamento</h2>
        <div class="info-block">
          <p><span class="label">Cliente:</span> {{customer_name}}</p>
          <p><span class="label">Email:</span> {{customer_email}}</p>
        </div>
        <h2>Descricao da Peca</h2>
        <div class="info-block">{{details}}</div>
      </div>
      <div class="footer"><p>ReBoho Art - Email automatico do sistema</p></div>`),
	},
	enum.EmailTemplateCustomOrderCustomer: {
		Subject: "Pedido de Orcamento Recebido - ReBoho Art",
		HTMLContent: wrap(`      <div class="header"><h1>Pedido de Orcamento Recebido!</h1></div>
      <div class="content">
        <p>Ola {{customer_name}},</p>
        <p>Recebemos o teu pedido de orcamento para uma peca personalizada!</p>
        <p>Vamos analisar o teu pedido e entraremos em contacto contigo em breve.</p>
        <p>Com carinho,<br><strong>ReBoho Art</strong></p>
      </div>`),
	},
}

// Default returns the built-in template for templateType.
func Default(templateType enum.EmailTemplateType) (*models.EmailTemplate, bool) {
	t, ok := defaults[templateType]
	if !ok {
		return nil, false
	}
	t.Type = templateType
	return &t, true
}

func wrap(body string) string {
	return strings.Replace(layout, "{{body}}", body, 1)
}
