package codec

import (
	// Local Packages
	models "ipn-gateway/models"
)

// Field binds one wire field name to its slot on the notification.
type Field struct {
	Name   string
	Assign func(n *models.Notification, value string)
}

// Schema is the declared field list of an inbound notification, applied once
// at decode time. Fields absent from the payload leave their slot empty;
// presence requirements are the lifecycle engine's decision, not the codec's.
var Schema = []Field{
	{"REFERENCE1", func(n *models.Notification, v string) { n.ExternalID = v }},
	{"REFERENCE2", func(n *models.Notification, v string) { n.SecondaryRef = v }},
	{"REFERENCE", func(n *models.Notification, v string) { n.BillRef = v }},
	{"REFTYPE", func(n *models.Notification, v string) { n.RefType = v }},
	{"AMOUNT", func(n *models.Notification, v string) { n.Amount = v }},
	{"CUSTOMERMSISDN", func(n *models.Notification, v string) { n.Msisdn = v }},
	{"MERCHANTMSISDN", func(n *models.Notification, v string) { n.MerchantMsisdn = v }},
	{"TYPE", func(n *models.Notification, v string) { n.Type = v }},
}

// Extract applies the schema to a decoded field map.
func Extract(fields map[string]string) models.Notification {
	var n models.Notification
	for _, f := range Schema {
		if v, ok := fields[f.Name]; ok {
			f.Assign(&n, v)
		}
	}
	return n
}
