// Package pdf implementa a geração do comprovante de pedido em PDF.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Loja  │  Pedido #<code> + Data                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nome + contato + endereço de entrega              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Qtd | Produto | Preço Unit. | Subtotal             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAIS: Itens / Frete / Desconto / TOTAL                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: status do pagamento                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lojaflex/lojaflex-api/internal/application/fulfillment"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 84, Blue: 58}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ fulfillment.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa fulfillment.ReceiptGenerator usando
// Maroto v2.
type MarotoReceiptGenerator struct {
	storeName string
}

// NewMarotoReceiptGenerator constrói o gerador.
func NewMarotoReceiptGenerator(storeName string) *MarotoReceiptGenerator {
	if storeName == "" {
		storeName = "lojaflex"
	}
	return &MarotoReceiptGenerator{storeName: storeName}
}

// GenerateReceipt gera o PDF e devolve seus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, order *entity.Order, customer *entity.Customer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Pedido #%d", order.Code), true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(order, customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(order.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nome da loja (esq) e número + data do pedido (dir).
func (g *MarotoReceiptGenerator) headerRow(order *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprovante de pedido", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("PEDIDO #%d", order.Code), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 4,
			}),
			text.New("Data: "+order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// customerRow: dados do cliente e endereço de entrega.
func customerRow(order *entity.Order, customer *entity.Customer) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   Entrega: %s %s",
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
				order.Address, order.City,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela de itens.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Produto", 6, align.Left),
		h("Preço Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: uma linha por item do pedido.
func tableItemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				item.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				item.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+item.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"R$ "+item.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloco de totais alinhado à direita.
func totalsRow(order *entity.Order) core.Row {
	itemsTotal := order.Total.Sub(order.ShippingFee).Add(order.Discount)

	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 20,
		})
	}

	return row.New(28).Add(
		col.New(3),
		col.New(3).Add(
			label("Itens:", 2),
			label("Frete:", 8),
			label("Desconto:", 14),
			grand("TOTAL:", 2),
		),
		col.New(3).Add(
			value("R$ "+itemsTotal.StringFixed(2), 2),
			value("R$ "+order.ShippingFee.StringFixed(2), 8),
			value("R$ "+order.Discount.StringFixed(2), 14),
			grand("R$ "+order.Total.StringFixed(2), 1),
		),
		col.New(3),
	)
}

// footerRow: status do pagamento.
func footerRow(order *entity.Order) core.Row {
	statusText := "Pagamento pendente"
	if order.PaymentStatus == entity.PaymentStatusPaid {
		statusText = "Pagamento confirmado"
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%s   |   Forma de pagamento: %s", statusText, order.PaymentMethod), props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
