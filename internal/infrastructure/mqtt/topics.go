package mqtt

import "fmt"

// TopicPrefixSystem is the base for system topics of the installation.
const TopicPrefixSystem = "graylogic/system"

// Topics provides builders for the generator's MQTT topics.
type Topics struct{}

// ConfgenRun returns the retained topic announcing the latest generator run
// for a site.
//
// Example: graylogic/system/confgen/home
func (Topics) ConfgenRun(site string) string {
	return fmt.Sprintf("%s/confgen/%s", TopicPrefixSystem, site)
}
