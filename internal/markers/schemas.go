package markers

import "fmt"

// ApplicationSchema describes the root application descriptor marker
var ApplicationSchema = Schema{
	Kind:        ApplicationMarker,
	Description: "Marks the struct describing the application. Exactly one per build.",
	Parameters: map[string]ParameterSpec{
		"Context":    TypeReferenceSpec("Type of the application context injected into every controller"),
		"StartRoute": RouteSpec(false, "Route shown when the application starts"),
	},
	Entries: EntrySpec{Max: 0},
	Examples: []string{
		"//loom::application -Context=AppContext",
		"//loom::application -Context=state.AppContext -StartRoute=/main/home",
	},
}

// ShellsSchema describes the shell set declared on the application descriptor
var ShellsSchema = Schema{
	Kind:        ShellsMarker,
	Description: "Declares the named shells of the application in order",
	Parameters:  map[string]ParameterSpec{},
	Entries: EntrySpec{
		Min:            1,
		Max:            -1,
		RequireValue:   true,
		NameValidator:  ValidateShellName,
		ValueValidator: func(v string) error { return ValidateTypeReference(v) },
		Description:    "name=ShellType pairs",
	},
	Examples: []string{
		"//loom::shells main=MainShell",
		"//loom::shells main=MainShell admin=admin.AdminShell",
	},
}

// ControllerSchema describes a controller bound to a route
var ControllerSchema = Schema{
	Kind:        ControllerMarker,
	Description: "Marks a controller struct handling one route",
	Parameters: map[string]ParameterSpec{
		"Route": RouteSpec(true, "Route handled by the controller, starting with its shell"),
		"Cache": {
			Type:         BoolType,
			DefaultValue: false,
			Description:  "Keep the created controller in the session store for reuse",
		},
		"Constructor": ConstructorSpec(),
	},
	Entries: EntrySpec{Max: 0},
	Examples: []string{
		"//loom::controller -Route=/main/home",
		"//loom::controller -Route=/main/detail/:id -Cache -Constructor=NewDetailController",
	},
}

// CompositeSchema describes one composite attachment on a controller
var CompositeSchema = Schema{
	Kind:        CompositeMarker,
	Description: "Attaches a composite component to the controller it is declared on",
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Required:    true,
			Description: "Name of the attachment, unique per controller",
			Validator:   ValidateIdentifier,
		},
		"Component": TypeReferenceSpec("Component type, which must carry loom::component"),
		"Setter": {
			Type:        StringType,
			Required:    true,
			Description: "Controller method receiving the created component",
			Validator:   ValidateIdentifier,
		},
		"Selector": {
			Type:        StringType,
			Description: "Element the component renders into",
		},
	},
	Entries: EntrySpec{Max: 0},
	Examples: []string{
		"//loom::composite -Name=summary -Component=SummaryComponent -Setter=SetSummary",
	},
}

// ComponentSchema describes a composite component type
var ComponentSchema = Schema{
	Kind:        ComponentMarker,
	Description: "Marks a struct usable as a composite component",
	Parameters: map[string]ParameterSpec{
		"Constructor": ConstructorSpec(),
	},
	Entries: EntrySpec{Max: 0},
	Examples: []string{
		"//loom::component",
		"//loom::component -Constructor=NewSummaryComponent",
	},
}

// ParameterSchema describes a route parameter setter
var ParameterSchema = Schema{
	Kind:        ParameterMarker,
	Description: "Marks a controller method receiving one route parameter",
	Parameters:  map[string]ParameterSpec{},
	Entries: EntrySpec{
		Min:           1,
		Max:           1,
		ForbidValue:   true,
		NameValidator: func(s string) error { return ValidateIdentifier(s) },
		Description:   "route parameter name without the leading ':'",
	},
	Examples: []string{
		"//loom::parameter id",
	},
}

// RegisterBuiltinSchemas registers all builtin marker schemas
func RegisterBuiltinSchemas(r Registry) error {
	schemas := []Schema{
		ApplicationSchema,
		ShellsSchema,
		ControllerSchema,
		CompositeSchema,
		ComponentSchema,
		ParameterSchema,
	}

	for _, schema := range schemas {
		if err := r.Register(schema.Kind, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Kind, err)
		}
	}
	return nil
}
