package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeHubTXT creates TXT records for hub discovery.
func EncodeHubTXT(info *HubInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyVersion] = info.Version
	txt[TXTKeyHubID] = info.HubID
	txt[TXTKeyNodes] = strconv.Itoa(info.NodeCount)
	txt[TXTKeyGetters] = strconv.Itoa(info.GetterCount)
	txt[TXTKeySetters] = strconv.Itoa(info.SetterCount)

	if info.Description != "" {
		txt[TXTKeyDescription] = info.Description
	}

	return txt
}

// DecodeHubTXT parses TXT records from hub discovery.
func DecodeHubTXT(txt TXTRecordMap) (*HubInfo, error) {
	info := &HubInfo{}

	var ok bool
	info.Version, ok = txt[TXTKeyVersion]
	if !ok || info.Version == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}

	info.HubID, ok = txt[TXTKeyHubID]
	if !ok || info.HubID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyHubID)
	}

	var err error
	if info.NodeCount, err = parseCount(txt, TXTKeyNodes); err != nil {
		return nil, err
	}
	if info.GetterCount, err = parseCount(txt, TXTKeyGetters); err != nil {
		return nil, err
	}
	if info.SetterCount, err = parseCount(txt, TXTKeySetters); err != nil {
		return nil, err
	}

	info.Description = txt[TXTKeyDescription]

	return info, nil
}

// parseCount reads an optional non-negative integer record. A missing
// record decodes as zero.
func parseCount(txt TXTRecordMap, key string) (int, error) {
	s, ok := txt[key]
	if !ok || s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, key, s)
	}
	return int(n), nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format mDNS libraries consume.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a
// TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks whether a name fits the DNS-SD limits.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
