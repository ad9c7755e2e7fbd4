package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL read schema over geolocation records.
// Mutations go through the REST endpoints because they drive mediation.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	identifiersType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SubscriberIdentifiers",
		Fields: graphql.Fields{
			"msisdn": &graphql.Field{Type: graphql.String},
			"imsi":   &graphql.Field{Type: graphql.String},
			"imei":   &graphql.Field{Type: graphql.String},
			"lmsi":   &graphql.Field{Type: graphql.String},
		},
	})

	vertexType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Vertex",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.String},
			"longitude": &graphql.Field{Type: graphql.String},
		},
	})

	dataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeolocationData",
		Fields: graphql.Fields{
			"mobile_country_code":     &graphql.Field{Type: graphql.Int},
			"mobile_network_code":     &graphql.Field{Type: graphql.Int},
			"location_area_code":      &graphql.Field{Type: graphql.Int},
			"cell_id":                 &graphql.Field{Type: graphql.Int},
			"service_area_code":       &graphql.Field{Type: graphql.Int},
			"enodeb_id":               &graphql.Field{Type: graphql.Int},
			"tracking_area_code":      &graphql.Field{Type: graphql.Int},
			"routing_area_code":       &graphql.Field{Type: graphql.Int},
			"network_entity_name":     &graphql.Field{Type: graphql.String},
			"location_age":            &graphql.Field{Type: graphql.Int},
			"subscriber_state":        &graphql.Field{Type: graphql.String},
			"not_reachable_reason":    &graphql.Field{Type: graphql.String},
			"type_of_shape":           &graphql.Field{Type: graphql.String},
			"device_latitude":         &graphql.Field{Type: graphql.String},
			"device_longitude":        &graphql.Field{Type: graphql.String},
			"uncertainty":             &graphql.Field{Type: graphql.Float},
			"confidence":              &graphql.Field{Type: graphql.Int},
			"polygon":                 &graphql.Field{Type: graphql.NewList(vertexType)},
			"device_horizontal_speed": &graphql.Field{Type: graphql.Float},
			"bearing":                 &graphql.Field{Type: graphql.Float},
			"civic_address":           &graphql.Field{Type: graphql.String},
			"geofence_type":           &graphql.Field{Type: graphql.String},
			"geofence_id":             &graphql.Field{Type: graphql.String},
			"motion_event_range":      &graphql.Field{Type: graphql.String},
		},
	})

	geolocationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Geolocation",
		Fields: graphql.Fields{
			"sid":                    &graphql.Field{Type: graphql.String},
			"account_sid":            &graphql.Field{Type: graphql.String},
			"geolocation_type":       &graphql.Field{Type: graphql.String},
			"device_identifier":      &graphql.Field{Type: graphql.String},
			"response_status":        &graphql.Field{Type: graphql.String},
			"cause":                  &graphql.Field{Type: graphql.String},
			"reference_number":       &graphql.Field{Type: graphql.Int},
			"subscriber_identifiers": &graphql.Field{Type: identifiersType},
			"geolocation_data":       &graphql.Field{Type: dataType},
			"api_version":            &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"geolocation": &graphql.Field{
				Type:        geolocationType,
				Description: "Get one geolocation record",
				Args: graphql.FieldConfigArgument{
					"account_sid": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"sid":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					accountSid := p.Args["account_sid"].(string)
					sid := p.Args["sid"].(string)
					return deps.Geolocations.Get(p.Context, accountSid, sid)
				},
			},
			"geolocations": &graphql.Field{
				Type:        graphql.NewList(geolocationType),
				Description: "List geolocation records of an account, most recent first",
				Args: graphql.FieldConfigArgument{
					"account_sid": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					accountSid := p.Args["account_sid"].(string)
					return deps.Geolocations.List(p.Context, accountSid)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
