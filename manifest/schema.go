package manifest

import (
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

const schemaSrc = `
generate?: close({
	naming?:      #naming
	suffix?:      =~"\\.go$"
	descriptors?: bool
})
site?: [...close({
	package:           string & !=""
	type:              =~"^[A-Za-z_][A-Za-z0-9_]*$"
	output?:           =~"\\.go$"
	"free-functions"?: bool
	naming?:           #naming
})]
#naming: "snake" | "camel" | "keep"
`

// One cue context serves every validation; it is not safe for concurrent use.
var (
	schemaOnce sync.Once
	schemaMu   sync.Mutex
	cueCtx     *cue.Context
	schema     cue.Value
)

func compiledSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		cueCtx = cuecontext.New()
		schema = cueCtx.CompileString("close({" + schemaSrc + "})")
	})
	return cueCtx, schema, schema.Err()
}

// validate checks decoded TOML against the configuration schema.
func validate(raw map[string]any) error {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	ctx, schema, err := compiledSchema()
	if err != nil {
		return err
	}
	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return err
	}
	return schema.Unify(value).Validate(cue.Concrete(true))
}
