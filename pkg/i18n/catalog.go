package i18n

// Message catalogs keyed by language code. English is the source
// language, so it has no catalog of its own.
var catalogs = map[string]map[string]string{
	"es": {
		"Trip Report":                     "Informe del Viaje",
		"Trip Details":                    "Detalles del Viaje",
		"Name":                            "Nombre",
		"Description":                     "Descripción",
		"Destination":                     "Destino",
		"All Destinations":                "Todos los Destinos",
		"Start Date":                      "Fecha de Inicio",
		"End Date":                        "Fecha de Fin",
		"Status":                          "Estado",
		"Budget":                          "Presupuesto",
		"Travelers":                       "Viajeros",
		"Notes":                           "Notas",
		"Bookings":                        "Reservas",
		"Type":                            "Tipo",
		"Title":                           "Título",
		"Date":                            "Fecha",
		"Location":                        "Ubicación",
		"Price":                           "Precio",
		"Confirmation":                    "Confirmación",
		"TOTAL":                           "TOTAL",
		"Trip Statistics":                 "Estadísticas del Viaje",
		"Total Bookings":                  "Total de Reservas",
		"Confirmed":                       "Confirmadas",
		"Pending":                         "Pendientes",
		"Cancelled":                       "Canceladas",
		"Total Cost":                      "Costo Total",
		"No bookings found for this trip.": "No se encontraron reservas para este viaje.",
		"Generated on":                    "Generado el",
		"Flight":                          "Vuelo",
		"Accommodation":                   "Alojamiento",
		"Car Rental":                      "Alquiler de Coche",
		"Activity":                        "Actividad",
		"Restaurant":                      "Restaurante",
		"Other":                           "Otro",
	},
}
