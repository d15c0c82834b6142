package scorer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/douremember/schema"
)

const systemPrompt = "Eres un experto en evaluación. Tu tarea es asignar puntuaciones de 1 a 5 a los siguientes " +
	"criterios para cada par de descripciones: %s. Asegúrate de ser objetivo y preciso en tu evaluación."

// criterionHints explains each criterion to the model.
var criterionHints = map[schema.Criterion]string{
	schema.TopicalConsistency:   "Evalúa si la descripción original está alineada con la descripción proporcionada por el paciente.",
	schema.LogicalFlow:          "Evalúa si la secuencia de ideas o eventos tiene una progresión lógica",
	schema.LinguisticComplexity: "Mide el nivel de complejidad lingüística, que incluye el uso de vocabulario y estructura gramatical",
	schema.PresenceEntities:     "Evalúa cuántas entidades (personas, objetos, etc.) están presentes en la descripción y si son relevantes",
	schema.AccuracyDetails:      "Se refiere a la precisión de los detalles en relación con la descripción original",
	schema.OmissionRate:         "Mide cuántos elementos relevantes se omiten en la descripción proporcionada por el paciente",
	schema.ComissionRate:        "Evalúa cuántos elementos irrelevantes o incorrectos se agregan en la descripción proporcionada",
}

func criterionKeys() string {
	keys := make([]string, 0, schema.NumCriteria)
	for _, c := range schema.AllCriteria {
		keys = append(keys, c.Key())
	}
	return strings.Join(keys, ", ")
}

// SystemPrompt returns the evaluator instructions.
func SystemPrompt() string {
	return fmt.Sprintf(systemPrompt, criterionKeys())
}

// UserPrompt lists the criteria and the serialized pairs.
func UserPrompt(pairs []schema.DescriptionPair) (string, error) {
	payload, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("failed to serialize descriptions: %w", err)
	}

	var b strings.Builder
	b.WriteString("Por favor, asigna una puntuación de 1 a 5 a cada uno de los siguientes criterios:\n")
	for _, c := range schema.AllCriteria {
		fmt.Fprintf(&b, "%s (%s),\n", c.Key(), criterionHints[c])
	}
	fmt.Fprintf(&b, "para cada objeto en el siguiente array:\n%s\n\n", payload)
	b.WriteString("MEDIDA DE RESPUESTA\n")
	fmt.Fprintf(&b, "Devuelve solamente un arreglo JSON de %d objetos, en el mismo orden, ", len(pairs))
	b.WriteString("en el que cada objeto solo tenga como atributos cada criterio con su puntuación.")
	return b.String(), nil
}
