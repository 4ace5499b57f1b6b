package urlrouter

type fieldDashboard struct {
	pattern string
	targets []string
}

const (
	dashICSBestGuess = "DASH:4a4bde20-4760-11ea-949c-bbb5a9feecbf"
	dashSecurity     = "DASH:95479950-41f2-11ea-88fa-7151df485405"
	dashNotices      = "DASH:f1f09567-fc7f-450b-a341-19d2f2bb468b"
)

// fieldDashboards is evaluated in order. Patterns are matched case-insensitively.
var fieldDashboards = []fieldDashboard{
	{`^(event\.(risk|severity)\w*|(rule|vulnerability|threat)\.*)$`,
		[]string{"DASH:d2dd0180-06b1-11ec-8c6b-353266ade330", dashSecurity}},
	{`^related\.(user|password)$`, []string{dashSecurity}},
	{`^event\.(action|result)$`, []string{"DASH:a33e0a50-afcd-11ea-993f-b7d8522a8bed"}},
	{`^event\.(dataset|provider)$`, []string{"DASH:0ad3d7c2-3441-485e-9dfe-dbb22e84e576"}},
	{`^(zeek\.conn\.|(source|destination|related).(oui|ip|port|mac|geo)|network\.(community_id|transport|protocol\w*))$`,
		[]string{"DASH:abdd7550-2c7c-40dc-947e-f6d186a158c4"}},
	{`^(suricata|rule)\.`, []string{"DASH:5694ca60-cbdf-11ec-a50a-5fedd672f5c5"}},
	{`^zeek\.bacnet.*\.`, []string{"DASH:2bec1490-eb94-11e9-a384-0fcf32210194", dashICSBestGuess}},
	{`^zeek\.bestguess\.`, []string{"DASH:12e3a130-d83b-11eb-a0b0-f328ce09b0b7", dashICSBestGuess}},
	{`^zeek\.bsap.*\.`, []string{"DASH:ca5799a0-56b5-11eb-b749-576de068f8ad", dashICSBestGuess}},
	{`^zeek\.dce_rpc\.`, []string{"DASH:432af556-c5c0-4cc3-8166-b274b4e3a406"}},
	{`^zeek\.dhcp\.`, []string{"DASH:2d98bb8e-214c-4374-837b-20e1bcd63a5e"}},
	{`^zeek\.dnp3.*\.`, []string{"DASH:870a5862-6c26-4a08-99fd-0c06cda85ba3", dashICSBestGuess}},
	{`^((source|destination)\.ip_reverse_dns|(zeek\.)?dns\.)`, []string{"DASH:2cf94cd0-ecab-40a5-95a7-8419f3a39cd9"}},
	{`^zeek\.ecat.*\.`, []string{"DASH:4a073440-b286-11eb-a4d4-09fa12a6ebd4", dashICSBestGuess}},
	{`^zeek\.(cip|enip)\.`, []string{"DASH:29a1b290-eb98-11e9-a384-0fcf32210194", dashICSBestGuess}},
	{`^(related\.hash|(zeek\.)?files\.)`, []string{"DASH:9ee51f94-3316-4fc5-bd89-93a52af69714"}},
	{`^zeek\.ftp\.`, []string{"DASH:078b9aa5-9bd4-4f02-ae5e-cf80fa6f887b"}},
	{`^zeek\.genisys.*\.`, []string{"DASH:03207c00-d07e-11ec-b4a7-d1b4003706b7", dashICSBestGuess}},
	{`^zeek\.gquic\.`, []string{"DASH:11ddd980-e388-11e9-b568-cf17de8e860c"}},
	{`^zeek\.http\.`, []string{"DASH:37041ee1-79c0-4684-a436-3173b0e89876"}},
	{`^zeek\.intel\.`, []string{"DASH:36ed695f-edcc-47c1-b0ec-50d20c93ce0f"}},
	{`^zeek\.irc\.`, []string{"DASH:76f2f912-80da-44cd-ab66-6a73c8344cc3"}},
	{`^zeek\.kerberos\.`, []string{"DASH:82da3101-2a9c-4ae2-bb61-d447a3fbe673"}},
	{`^zeek\.ldap.*\.`, []string{"DASH:05e3e000-f118-11e9-acda-83a8e29e1a24"}},
	{`^zeek\.login\.`, []string{"DASH:c2549e10-7f2e-11ea-9f8a-1fe1327e2cd2"}},
	{`^zeek\.(known_modbus|modbus).*\.`, []string{"DASH:152f29dc-51a2-4f53-93e9-6e92765567b8", dashICSBestGuess}},
	{`^zeek\.mqtt.*\.`, []string{"DASH:87a32f90-ef58-11e9-974e-9d600036d105"}},
	{`^zeek\.mysql\.`, []string{"DASH:50ced171-1b10-4c3f-8b67-2db9635661a6"}},
	{`^zeek\.notice\.`, []string{dashNotices, dashSecurity}},
	{`^zeek\.ntlm\.`, []string{"DASH:543118a9-02d7-43fe-b669-b8652177fc37"}},
	{`^zeek\.ntp\.`, []string{"DASH:af5df620-eeb6-11e9-bdef-65a192b7f586"}},
	{`^zeek\.opcua.*\.`, []string{"DASH:dd87edd0-796a-11ec-9ce6-b395c1ff58f4", dashICSBestGuess}},
	{`^zeek\.ospf\.`, []string{"DASH:1cc01ff0-5205-11ec-a62c-7bc80e88f3f0"}},
	{`^zeek\.pe\.`, []string{"DASH:0a490422-0ce9-44bf-9a2d-19329ddde8c3"}},
	{`^zeek\.profinet.*\.`, []string{"DASH:a7514350-eba6-11e9-a384-0fcf32210194", dashICSBestGuess}},
	{`^zeek\.radius\.`, []string{"DASH:ae79b7d1-4281-4095-b2f6-fa7eafda9970"}},
	{`^zeek\.rdp\.`, []string{"DASH:7f41913f-cba8-43f5-82a8-241b7ead03e0"}},
	{`^zeek\.rfb\.`, []string{"DASH:f77bf097-18a8-465c-b634-eb2acc7a4f26"}},
	{`^zeek\.(s7comm.*|(iso_)?cotp)\.`, []string{"DASH:e76d05c0-eb9f-11e9-a384-0fcf32210194", dashICSBestGuess}},
	{`^(zeek\.signatures|rule)\.`,
		[]string{"DASH:665d1610-523d-11e9-a30e-e3576242f3ed", dashSecurity, dashNotices}},
	{`^zeek\.sip\.`, []string{"DASH:0b2354ae-0fe9-4fd9-b156-1c3870e5c7aa"}},
	{`^zeek\.smb.*\.`, []string{"DASH:42e831b9-41a9-4f35-8b7d-e1566d368773"}},
	{`^zeek\.smtp\.`, []string{"DASH:bb827f8e-639e-468c-93c8-9f5bc132eb8f"}},
	{`^zeek\.snmp\.`, []string{"DASH:4e5f106e-c60a-4226-8f64-d534abb912ab"}},
	{`^zeek\.software\.`, []string{"DASH:87d990cc-9e0b-41e5-b8fe-b10ae1da0c85"}},
	{`^zeek\.ssh\.`, []string{"DASH:caef3ade-d289-4d05-a511-149f3e97f238"}},
	{`^zeek\.stun.*\.`, []string{"DASH:fa477130-2b8a-11ec-a9f2-3911c8571bfd"}},
	{`^zeek\.synchrophasor.*\.`, []string{"DASH:2cc56240-e460-11ed-a9d5-9f591c284cb4", dashICSBestGuess}},
	{`^zeek\.syslog\.`, []string{"DASH:92985909-dc29-4533-9e80-d3182a0ecf1d"}},
	{`^zeek\.tds\.`, []string{"DASH:bed185a0-ef82-11e9-b38a-2db3ee640e88"}},
	{`^zeek\.tds_rpc\.`, []string{"DASH:32587740-ef88-11e9-b38a-2db3ee640e88"}},
	{`^zeek\.tds_sql_batch\.`, []string{"DASH:fa141950-ef89-11e9-b38a-2db3ee640e88"}},
	{`^zeek\.tftp\.`, []string{"DASH:bf5efbb0-60f1-11eb-9d60-dbf0411cfc48"}},
	{`^zeek\.tunnel\.`, []string{"DASH:11be6381-beef-40a7-bdce-88c5398392fc"}},
	{`^zeek\.weird\.`, []string{"DASH:1fff49f6-0199-4a0f-820b-721aff9ff1f1"}},
	{`^zeek\.(ssl|ocsp|known_certs|x509)\.`,
		[]string{"DASH:7f77b58a-df3e-4cc2-b782-fd7f8bad8ffb", "DASH:024062a6-48d6-498f-a91a-3bf2da3a3cd3"}},
}
