package bridge

// ContractURI identifies the static contract resource.
const ContractURI = "ansuz://encoding-contract"

// EncodingContract describes the bundle layout and the path encoding both
// the generator and any independent bridge implementation must reproduce.
const EncodingContract = `# Ansuz Bundle Encoding Contract

A bundle is a directory with this layout:

` + "```" + `
manifest.json              top-level manifest (resources + tools)
resources/<enc>.json       one envelope per resource
tools/<op>.json            zero-argument tool response
tools/<op>/...             one-, two- and many-argument tool responses
` + "```" + `

## Resource paths

For an identifier of the form ` + "`scheme://rest`" + ` the encoded fragment is
` + "`rest`" + `; any other identifier is used whole. In either case the characters
` + "`* ? \" < > |`" + ` are each replaced with ` + "`_`" + `, and ` + "`.json`" + ` is appended.

## Tool call paths

Relative to ` + "`tools/`" + `, selected by argument count:

| args | path |
|------|------|
| 0    | ` + "`<op>.json`" + ` |
| 1    | ` + "`<op>/<value>.json`" + ` |
| 2    | ` + "`<op>/<a>/<b>.json`" + ` with the two encoded values sorted ascending |
| >=3  | ` + "`<op>/<hash>.json`" + ` |

Values are stringified (strings verbatim, booleans and numbers in canonical
form, structured values as compact JSON). In the one- and two-argument
forms a value containing ` + "`://`" + ` is stripped to its tail and the unsafe
character set is substituted, exactly as for resources.

The many-argument hash is the standard base64 encoding of the argument
names sorted ascending and joined as ` + "`name=value`" + ` pairs with ` + "`&`" + `,
with ` + "`/`" + ` and ` + "`+`" + ` replaced by ` + "`_`" + ` and padding dropped. It is never
truncated.

Any divergence from these rules makes lookups fail silently: files exist
but are never found.
`
