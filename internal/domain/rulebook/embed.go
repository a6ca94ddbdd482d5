package rulebook

import _ "embed"

//go:embed data/rulebook.yaml
var embeddedRulebook []byte
