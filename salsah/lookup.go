package salsah

const (
	systemVocabulary   = "salsah"
	locationProperty   = "__location__"
	resourceTypeIDAttr = "restypeid"
	defaultSuper       = "hasValue"
	linkValueObject    = "LinkValue"
	commentLanguage    = "en"

	selectionNodePrefix = "S_"
	hlistNodePrefix     = "H_"
)

// ResourceClassMappings maps a SALSAH resource class to the DSP super class.
var ResourceClassMappings = map[string]string{
	"movie":  "MovingImageRepresentation",
	"object": "Resource",
	"image":  "StillImageRepresentation",
}

// systemPropertyMappings names the salsah properties that keep a fixed name
// when referenced from a cardinality.
var systemPropertyMappings = map[string]string{
	"part_of":        "isPartOf",
	"seqnum":         "seqnum",
	locationProperty: locationProperty,
}

// reservedSystemProperties are never emitted as ontology properties.
var reservedSystemProperties = map[string]bool{
	"part_of":        true,
	"seqnum":         true,
	locationProperty: true,
}

// GuiElementMappings maps a SALSAH gui name to a DSP gui element.
var GuiElementMappings = map[string]string{
	"text":        "SimpleText",
	"textarea":    "Textarea",
	"richtext":    "Richtext",
	"colorpicker": "Colorpicker",
	"date":        "Date",
	"slider":      "Slider",
	"geoname":     "Geonames",
	"spinbox":     "Spinbox",
	"checkbox":    "Checkbox",
	"radio":       "Radio",
	"list":        "List",
	"pulldown":    "Pulldown",
	"hlist":       "Pulldown",
	"searchbox":   "Searchbox",
	"interval":    "IntervalValue",
	"fileupload":  "Fileupload",
}

// ValueTypeMappings maps a SALSAH value type name to a DSP value object.
var ValueTypeMappings = map[string]string{
	"Text":                  "TextValue",
	"Richtext":              "TextValue",
	"Iconclass":             "TextValue",
	"Color":                 "ColorValue",
	"Date":                  "DateValue",
	"Time":                  "TimeValue",
	"Floating point number": "DecimalValue",
	"Geometry":              "GeomValue",
	"Geoname":               "GeonameValue",
	"Integer value":         "IntValue",
	"Boolean":               "BooleanValue",
	"URI":                   "UriValue",
	"Interval":              "IntervalValue",
	"Selection":             "ListValue",
	"Hierarchical list":     "ListValue",
	"Resource pointer":      linkValueObject,
}

// PropertySuperMappings maps a DSP value object to the super property it
// implies. Objects without an entry default to hasValue.
var PropertySuperMappings = map[string]string{
	linkValueObject: "hasLinkTo",
	"ColorValue":    "hasColor",
	"GeomValue":     "hasGeometry",
}

// PrefixMappings are the external vocabularies whose namespace is known.
var PrefixMappings = map[string]string{
	"dc": "http://purl.org/dc/terms/",
}

// integerAttributes are gui attributes emitted as integers when numeric.
var integerAttributes = map[string]bool{
	"size":      true,
	"maxlength": true,
	"numprops":  true,
	"cols":      true,
	"rows":      true,
	"min":       true,
	"max":       true,
}
