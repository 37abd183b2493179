package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/verdantworks/plantation-cli/internal/model"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	XMLNS    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Placemarks  []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	Point       kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// WriteKML writes the plan as a KML Document of Placemarks. Each placemark
// carries the score and the top two species in its description, the format
// handheld GPS units and Google Earth render directly.
func WriteKML(w io.Writer, plan *model.Plan) error {
	doc := kmlRoot{
		XMLNS: kmlNamespace,
		Document: kmlDocument{
			Name:        "Plantation Plan",
			Description: "Generated plantation coordinates",
		},
	}

	for i, p := range plan.Points {
		top := p.Species
		if len(top) > 2 {
			top = top[:2]
		}
		doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
			Name:        fmt.Sprintf("Point %d", i+1),
			Description: fmt.Sprintf("Suitability: %.1f/100 Species: %s", p.Score, strings.Join(top, ", ")),
			Point: kmlPoint{
				Coordinates: fmt.Sprintf("%f,%f,0", p.Lon, p.Lat),
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return eris.Wrap(err, "export: write KML header")
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "export: encode KML")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: close KML encoder")
	}

	_, err := io.WriteString(w, "\n")
	return eris.Wrap(err, "export: finish KML")
}
