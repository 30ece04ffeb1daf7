package remote

// Step is one write operation inside a transaction. The concrete variants
// below are the only implementations; they are serialized to the store's
// loose key/value wire format at the HTTP boundary only.
type Step interface {
	step()
}

// Update upserts a record by id within a namespace.
type Update struct {
	Namespace string
	ID        string
	Fields    map[string]interface{}
}

// Delete removes a record by id.
type Delete struct {
	Namespace string
	ID        string
}

// Link attaches a relationship edge from a record's field to a target record.
// The store's update verb cannot write nested relations, so parent linkage is
// always a separate step.
type Link struct {
	Namespace string
	ID        string
	Field     string
	TargetID  string
}

// Unlink removes a relationship edge.
type Unlink struct {
	Namespace string
	ID        string
	Field     string
	TargetID  string
}

func (Update) step() {}
func (Delete) step() {}
func (Link) step()   {}
func (Unlink) step() {}

// wireStep is the loose representation accepted by the transaction endpoint.
type wireStep struct {
	Op        string                 `json:"op"`
	Namespace string                 `json:"namespace"`
	ID        string                 `json:"id"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Field     string                 `json:"field,omitempty"`
	TargetID  string                 `json:"targetId,omitempty"`
}

func toWire(s Step) wireStep {
	switch v := s.(type) {
	case Update:
		return wireStep{Op: "update", Namespace: v.Namespace, ID: v.ID, Fields: v.Fields}
	case Delete:
		return wireStep{Op: "delete", Namespace: v.Namespace, ID: v.ID}
	case Link:
		return wireStep{Op: "link", Namespace: v.Namespace, ID: v.ID, Field: v.Field, TargetID: v.TargetID}
	case Unlink:
		return wireStep{Op: "unlink", Namespace: v.Namespace, ID: v.ID, Field: v.Field, TargetID: v.TargetID}
	default:
		// unreachable: the variant set is closed
		return wireStep{}
	}
}
