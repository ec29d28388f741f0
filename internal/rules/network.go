package rules

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

var (
	unrestrictedSources = []string{"0.0.0.0/0", "::/0"}
	allProtocolValues   = []string{"-1", "all"}
	icmpProtocols       = []string{"icmp", "1", "icmpv6", "58"}
)

const maxPort = 65535

// ingress is one inbound permission normalised from any of the security
// group resource shapes.
type ingress struct {
	address  string
	label    string
	protocol string
	from     int
	to       int
	hasPorts bool
	sources  []string
}

func (in ingress) allProtocols() bool {
	return containsFold(allProtocolValues, in.protocol)
}

func (in ingress) unrestrictedSource() (string, bool) {
	for _, src := range in.sources {
		if slices.Contains(unrestrictedSources, strings.TrimSpace(src)) {
			return src, true
		}
	}
	return "", false
}

// covers uses the closed interval [from, to]. All-protocol ingress covers
// every port.
func (in ingress) covers(port int) bool {
	if in.allProtocols() {
		return true
	}
	if containsFold(icmpProtocols, in.protocol) || !in.hasPorts {
		return false
	}
	return in.from <= port && port <= in.to
}

func (in ingress) allPorts() bool {
	if !in.hasPorts {
		return true
	}
	return in.from == 0 && (in.to == 0 || in.to == maxPort)
}

func (in ingress) portRange() string {
	if !in.hasPorts {
		return "all"
	}
	return fmt.Sprintf("%d-%d", in.from, in.to)
}

func ingressRules(cs *domain.ChangeSet) []ingress {
	var out []ingress
	changes := cs.InScopeOfType(domain.TypeSecurityGroup, domain.TypeSecurityGroupRule, domain.TypeSecurityGroupIngressRule)
	for _, rc := range changes {
		attrs := rc.Attributes()
		switch rc.Type {
		case domain.TypeSecurityGroup:
			blocks, _ := attrs.Blocks(domain.SGIngressKey)
			for i, b := range blocks {
				out = append(out, classicIngress(rc.Address, fmt.Sprintf("ingress[%d]", i), b, domain.SGProtocolKey))
			}
		case domain.TypeSecurityGroupRule:
			if t, _ := attrs.String(domain.SGTypeKey); t != "ingress" {
				continue
			}
			out = append(out, classicIngress(rc.Address, "rule", attrs, domain.SGProtocolKey))
		case domain.TypeSecurityGroupIngressRule:
			in := classicIngress(rc.Address, "rule", attrs, domain.SGIPProtocolKey)
			in.sources = nil
			for _, key := range []string{domain.SGCIDRIPv4Key, domain.SGCIDRIPv6Key} {
				if cidr, ok := attrs.String(key); ok {
					in.sources = append(in.sources, cidr)
				}
			}
			out = append(out, in)
		}
	}
	return out
}

func classicIngress(address, label string, attrs domain.Attributes, protocolKey string) ingress {
	in := ingress{address: address, label: label}
	in.protocol = describe(attrs, protocolKey)
	from, okFrom := attrs.Number(domain.SGFromPortKey)
	to, okTo := attrs.Number(domain.SGToPortKey)
	if okFrom && okTo {
		in.from, in.to, in.hasPorts = int(from), int(to), true
	}
	for _, key := range []string{domain.SGCIDRBlocksKey, domain.SGIPv6CIDRBlocksKey} {
		if cidrs, ok := attrs.Strings(key); ok {
			in.sources = append(in.sources, cidrs...)
		}
	}
	return in
}

func restrictSensitivePorts(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		for _, in := range ingressRules(cs) {
			src, open := in.unrestrictedSource()
			if !open {
				continue
			}
			for _, port := range s.SensitivePorts {
				if in.covers(port) {
					c.Add(in.address, "%s %s allows %s on sensitive port %d (protocol %s, ports %s)",
						in.address, in.label, src, port, in.protocol, in.portRange())
				}
			}
		}
	}
}

func noUnrestrictedAllTraffic(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, in := range ingressRules(cs) {
		src, open := in.unrestrictedSource()
		if open && in.allProtocols() && in.allPorts() {
			c.Add(in.address, "%s %s allows all traffic from %s", in.address, in.label, src)
		}
	}
}
