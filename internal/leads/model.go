package leads

// Lifecycle and channel literals stored on every record. The Spanish values
// are the wire contract of the deployed landing page and stay as-is.
const (
	StatusNew     = "nuevo"
	SourceWebForm = "formulario-web"
)

// SubmitRequest is the raw JSON body posted by the landing-page form.
type SubmitRequest struct {
	Nombre      string `json:"nombre"`
	Email       string `json:"email"`
	Telefono    string `json:"telefono"`
	Servicio    string `json:"servicio"`
	Descripcion string `json:"descripcion"`
}

// Fields holds the validated, normalized form values.
type Fields struct {
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Description string
}

// Lead is the persisted record, keyed by ID. CreatedAt and
// CreatedAtEpochMillis capture the same instant; the epoch copy exists for
// numeric sort and filter in the store. Date is the YYYY-MM-DD portion.
type Lead struct {
	ID                   string `dynamodbav:"id" json:"id"`
	Name                 string `dynamodbav:"name" json:"name"`
	Email                string `dynamodbav:"email" json:"email"`
	Phone                string `dynamodbav:"phone" json:"phone"`
	ServiceType          string `dynamodbav:"serviceType" json:"serviceType"`
	Description          string `dynamodbav:"description" json:"description"`
	Date                 string `dynamodbav:"fecha" json:"fecha"`
	CreatedAt            string `dynamodbav:"createdAt" json:"createdAt"`
	CreatedAtEpochMillis int64  `dynamodbav:"createdAtEpochMillis" json:"createdAtEpochMillis"`
	Status               string `dynamodbav:"status" json:"status"`
	Source               string `dynamodbav:"source" json:"source"`
}
