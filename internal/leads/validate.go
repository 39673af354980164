package leads

import "strings"

// requiredFields lists the form keys in the order the landing page renders
// them; missing-field errors keep this order.
var requiredFields = []string{"nombre", "email", "telefono", "servicio", "descripcion"}

// Validate checks the raw submission and returns normalized field values.
// All fields are required; a value that is empty after trimming counts as
// missing, and every missing field is reported in one error. The email is
// additionally lower-cased and checked for a basic local@domain.tld shape.
// Pure: no side effects, deterministic for a given input.
func Validate(req *SubmitRequest) (Fields, error) {
	name := strings.TrimSpace(req.Nombre)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Telefono)
	service := strings.TrimSpace(req.Servicio)
	description := strings.TrimSpace(req.Descripcion)

	var missing []string
	for _, field := range requiredFields {
		switch field {
		case "nombre":
			if name == "" {
				missing = append(missing, field)
			}
		case "email":
			if email == "" {
				missing = append(missing, field)
			}
		case "telefono":
			if phone == "" {
				missing = append(missing, field)
			}
		case "servicio":
			if service == "" {
				missing = append(missing, field)
			}
		case "descripcion":
			if description == "" {
				missing = append(missing, field)
			}
		}
	}
	if len(missing) > 0 {
		return Fields{}, &ValidationError{MissingFields: missing}
	}

	if !validEmailShape(email) {
		return Fields{}, &ValidationError{EmailInvalid: true}
	}

	return Fields{
		Name:        name,
		Email:       email,
		Phone:       phone,
		ServiceType: service,
		Description: description,
	}, nil
}

// validEmailShape enforces: exactly one @, non-empty sides, at least one dot
// inside the domain part, and no whitespace anywhere.
func validEmailShape(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
