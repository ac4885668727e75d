package scanning

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/genproto/googleapis/type/money"
)

var _ = Describe("toEntities", func() {
	It("maps plain entities", func() {
		entities := toEntities([]*documentaipb.Document_Entity{
			{Type: "supplier_name", MentionText: "Guardian", Confidence: 0.81},
		})
		Expect(entities).To(HaveLen(1))
		Expect(entities[0].Type).To(Equal("supplier_name"))
		Expect(entities[0].MentionText).To(Equal("Guardian"))
		Expect(entities[0].Confidence).To(Equal(float32(0.81)))
		Expect(entities[0].NormalizedValue).To(BeNil())
	})

	It("maps a normalized money value", func() {
		entities := toEntities([]*documentaipb.Document_Entity{
			{
				Type:        "total_amount",
				MentionText: "RM 45.50",
				Confidence:  0.93,
				NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
					StructuredValue: &documentaipb.Document_Entity_NormalizedValue_MoneyValue{
						MoneyValue: &money.Money{CurrencyCode: "MYR", Units: 45, Nanos: 500000000},
					},
				},
			},
		})
		value := entities[0].NormalizedValue
		Expect(value).NotTo(BeNil())
		Expect(value.Money).NotTo(BeNil())
		Expect(value.Money.Units).To(Equal(int64(45)))
		Expect(value.Money.Nanos).To(Equal(int32(500000000)))
		Expect(value.Money.CurrencyCode).To(Equal("MYR"))
		Expect(value.Date).To(BeNil())
	})

	It("maps a normalized date value", func() {
		entities := toEntities([]*documentaipb.Document_Entity{
			{
				Type:        "receipt_date",
				MentionText: "09/03/2024",
				Confidence:  0.88,
				NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
					StructuredValue: &documentaipb.Document_Entity_NormalizedValue_DateValue{
						DateValue: &date.Date{Year: 2024, Month: 3, Day: 9},
					},
				},
			},
		})
		value := entities[0].NormalizedValue
		Expect(value.Date).NotTo(BeNil())
		Expect(value.Date.Year).To(Equal(2024))
		Expect(value.Date.Month).To(Equal(3))
		Expect(value.Date.Day).To(Equal(9))
		Expect(value.Money).To(BeNil())
	})

	It("maps nested line-item properties recursively", func() {
		entities := toEntities([]*documentaipb.Document_Entity{
			{
				Type:       "line_item",
				Confidence: 0.9,
				Properties: []*documentaipb.Document_Entity{
					{Type: "line_item/description", MentionText: "Milo Tin"},
					{Type: "line_item/amount", MentionText: "30.90"},
				},
			},
		})
		Expect(entities[0].Properties).To(HaveLen(2))
		Expect(entities[0].Properties[0].Type).To(Equal("line_item/description"))
	})

	It("skips nil entries", func() {
		entities := toEntities([]*documentaipb.Document_Entity{
			nil,
			{Type: "currency", MentionText: "MYR"},
		})
		Expect(entities).To(HaveLen(1))
	})

	It("returns an empty slice for no entities", func() {
		Expect(toEntities(nil)).To(BeEmpty())
	})
})
