package schemas

import "strings"

// BrStates maps Brazilian state names (lowercase, unaccented and accented) to their UF codes.
var BrStates = map[string]string{
	"acre":                "AC",
	"alagoas":             "AL",
	"amapa":               "AP",
	"amapá":               "AP",
	"amazonas":            "AM",
	"bahia":               "BA",
	"ceara":               "CE",
	"ceará":               "CE",
	"distrito federal":    "DF",
	"espirito santo":      "ES",
	"espírito santo":      "ES",
	"goias":               "GO",
	"goiás":               "GO",
	"maranhao":            "MA",
	"maranhão":            "MA",
	"mato grosso":         "MT",
	"mato grosso do sul":  "MS",
	"minas gerais":        "MG",
	"para":                "PA",
	"pará":                "PA",
	"paraiba":             "PB",
	"paraíba":             "PB",
	"parana":              "PR",
	"paraná":              "PR",
	"pernambuco":          "PE",
	"piaui":               "PI",
	"piauí":               "PI",
	"rio de janeiro":      "RJ",
	"rio grande do norte": "RN",
	"rio grande do sul":   "RS",
	"rondonia":            "RO",
	"rondônia":            "RO",
	"roraima":             "RR",
	"santa catarina":      "SC",
	"sao paulo":           "SP",
	"são paulo":           "SP",
	"sergipe":             "SE",
	"tocantins":           "TO",
}

// NormalizeBrState converts Brazilian state names to their 2-letter UF code.
// Codes are upper-cased. Unrecognized input is returned trimmed so the
// length check can reject it.
func NormalizeBrState(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := BrStates[strings.ToLower(s)]; ok {
		return code
	}
	if len(s) == 2 {
		return strings.ToUpper(s)
	}
	return s
}

// NormalizePhone keeps digits and a leading plus sign: "+55 (11) 98888-7777" -> "+5511988887777".
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
