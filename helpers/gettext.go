package helpers

import (
	_ "embed"
	"fmt"
	"math/rand"

	"github.com/Jeffail/gabs"
)

//go:embed assets/i18n.json
var translationsJSON []byte

var translations *gabs.Container

func LoadTranslations() {
	json, err := gabs.ParseJSON(translationsJSON)
	Relax(err)

	translations = json
}

// GetText returns the text for $id, a random one if $id is a list, or $id itself if unknown
func GetText(id string) string {
	if translations == nil || !translations.ExistsP(id) {
		return id
	}

	item := translations.Path(id)

	switch value := item.Data().(type) {
	case string:
		return value
	case []interface{}:
		if len(value) > 0 {
			if text, ok := value[rand.Intn(len(value))].(string); ok {
				return text
			}
		}
	case map[string]interface{}:
		if text, ok := value["__"].(string); ok {
			return text
		}
	}

	return id
}

func GetTextF(id string, replacements ...interface{}) string {
	return fmt.Sprintf(GetText(id), replacements...)
}
