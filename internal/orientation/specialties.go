package orientation

import "strings"

// SpecialtyInfo describes one entry of the fixed specialty catalog: the
// display name, a one-line description used in the inference prompt, and
// the keyword phrases the fallback scorer looks for.
type SpecialtyInfo struct {
	Name        string
	Description string
	Keywords    []string
}

// Specialties is the fixed catalog, loaded once. Slice order matters: the
// keyword scorer breaks ties by first-encountered specialty.
var Specialties = []SpecialtyInfo{
	{
		Name:        "Cardiología",
		Description: "Corazón y sistema cardiovascular",
		Keywords: []string{
			"dolor de pecho", "palpitaciones", "corazón", "presión arterial", "hipertensión",
			"taquicardia", "arritmia", "infarto", "cardiovascular", "dolor torácico",
		},
	},
	{
		Name:        "Pediatría",
		Description: "Salud infantil y adolescente",
		Keywords: []string{
			"niño", "bebé", "infantil", "vacuna", "desarrollo infantil", "fiebre en niños",
			"crecimiento", "lactancia", "pediátrico",
		},
	},
	{
		Name:        "Dermatología",
		Description: "Piel, cabello y uñas",
		Keywords: []string{
			"piel", "sarpullido", "acné", "manchas", "picazón", "dermatitis", "eczema",
			"urticaria", "psoriasis", "lunares", "erupción",
		},
	},
	{
		Name:        "Psicología",
		Description: "Salud mental y bienestar emocional",
		Keywords: []string{
			"ansiedad", "depresión", "estrés", "insomnio", "tristeza", "pánico", "miedo",
			"angustia", "mental", "emocional", "dormir",
		},
	},
	{
		Name:        "Traumatología",
		Description: "Huesos, músculos y articulaciones",
		Keywords: []string{
			"fractura", "hueso", "dolor muscular", "esguince", "lesión", "articulación",
			"rodilla", "tobillo", "columna", "lumbar", "dolor de espalda", "contractura",
		},
	},
	{
		Name:        "Ginecología",
		Description: "Salud femenina",
		Keywords: []string{
			"menstruación", "embarazo", "útero", "ovario", "vaginal", "menopausia",
			"ciclo menstrual", "anticonceptivos", "ginecológico",
		},
	},
	{
		Name:        "Oftalmología",
		Description: "Salud visual",
		Keywords: []string{
			"ojo", "visión", "vista", "ceguera", "conjuntivitis", "glaucoma", "cataratas",
			"miopía", "astigmatismo", "visual",
		},
	},
	{
		Name:        "Neurología",
		Description: "Sistema nervioso",
		Keywords: []string{
			"dolor de cabeza", "migraña", "mareo", "vértigo", "convulsiones", "epilepsia",
			"parálisis", "temblor", "cerebro", "nervioso", "cefalea",
		},
	},
	{
		Name:        "Nutrición",
		Description: "Alimentación y dietas",
		Keywords: []string{
			"dieta", "peso", "obesidad", "adelgazar", "alimentación", "nutrición",
			"diabético", "colesterol", "triglicéridos", "metabolismo",
		},
	},
	{
		Name:        "Medicina General",
		Description: "Atención primaria y consultas generales",
		Keywords: []string{
			"fiebre", "gripe", "tos", "resfriado", "dolor", "malestar", "fatiga", "cansancio",
		},
	},
}

// DefaultSpecialty is recommended when nothing specific can be inferred.
const DefaultSpecialty = "Medicina General"

// CanonicalSpecialty maps a free-form name to its catalog spelling.
// Returns "" when the name is not part of the catalog.
func CanonicalSpecialty(name string) string {
	name = strings.TrimSpace(name)
	for _, s := range Specialties {
		if strings.EqualFold(s.Name, name) {
			return s.Name
		}
	}
	return ""
}

// InferencePrompt instructs the model to answer with one catalog specialty
// or the literal "undefined", as a {specialty, comment} JSON object.
func InferencePrompt() string {
	var b strings.Builder
	b.WriteString("Eres un asistente de orientación médica. ")
	b.WriteString("Dados los síntomas del paciente, elige la especialidad más adecuada de esta lista:\n")
	for _, s := range Specialties {
		b.WriteString("- ")
		b.WriteString(s.Name)
		b.WriteString(": ")
		b.WriteString(s.Description)
		b.WriteString("\n")
	}
	b.WriteString("Responde únicamente con JSON de la forma {\"specialty\": \"...\", \"comment\": \"...\"}. ")
	b.WriteString("Si los síntomas no encajan con ninguna especialidad, usa \"undefined\" como specialty.")
	return b.String()
}
